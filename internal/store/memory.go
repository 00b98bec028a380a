package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
)

// Memory is an in-process Store used in tests. Documents are copied through
// JSON on the way in and out, matching the isolation of a real document store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) FindSession(_ context.Context, sessionID string) (*domain.InterviewSession, error) {
	m.mu.RLock()
	doc, ok := m.docs[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithReason(ReasonSessionNotFound),
			errors.WithMessagef("session not found: %s", sessionID),
		)
	}

	return decode(doc)
}

func (m *Memory) ListSessionsByUser(_ context.Context, userID string, since time.Time) ([]domain.InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []domain.InterviewSession
	for _, doc := range m.docs {
		ss, err := decode(doc)
		if err != nil {
			return nil, err
		}
		if ss.UserID != userID || ss.StartedAt.Before(since) {
			continue
		}
		sessions = append(sessions, *ss)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})

	return sessions, nil
}

func (m *Memory) UpsertSession(_ context.Context, ss *domain.InterviewSession) error {
	doc, err := json.Marshal(ss)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.docs[ss.SessionID] = doc
	m.mu.Unlock()

	return nil
}

func (m *Memory) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.docs, sessionID)
	m.mu.Unlock()

	return nil
}
