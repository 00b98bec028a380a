// Package store exposes interview sessions as documents: find by id, list by
// user, upsert, delete. Updates are idempotent and keyed by session id with
// last-write-wins semantics.
package store

import (
	"context"
	"time"

	"github.com/prepdrill/prepdrill/internal/domain"
)

const ReasonSessionNotFound = "SESSION_NOT_FOUND"

type Store interface {
	// FindSession returns the session or a CodeNotFound error.
	FindSession(ctx context.Context, sessionID string) (*domain.InterviewSession, error)
	// ListSessionsByUser returns the user's sessions started at or after
	// since (zero time means all), ordered by start time ascending.
	ListSessionsByUser(ctx context.Context, userID string, since time.Time) ([]domain.InterviewSession, error)
	// UpsertSession writes the whole session document.
	UpsertSession(ctx context.Context, ss *domain.InterviewSession) error
	// DeleteSession removes the session. Deleting a missing session is not
	// an error.
	DeleteSession(ctx context.Context, sessionID string) error
}
