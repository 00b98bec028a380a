package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
)

// Postgres stores each session as one JSONB document keyed by session id.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) FindSession(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	const stmt = `SELECT doc FROM interview_sessions WHERE session_id = $1;`

	var doc []byte
	err := p.db.QueryRow(ctx, stmt, sessionID).Scan(&doc)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithReason(ReasonSessionNotFound),
			errors.WithMessagef("session not found: %s", sessionID),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("find session %s: %w", sessionID, err)
	}

	return decode(doc)
}

func (p *Postgres) ListSessionsByUser(ctx context.Context, userID string, since time.Time) ([]domain.InterviewSession, error) {
	const stmt = `
SELECT doc FROM interview_sessions
WHERE user_id = $1 AND started_at >= $2
ORDER BY started_at;`

	rows, err := p.db.Query(ctx, stmt, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", userID, err)
	}

	sessions, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.InterviewSession, error) {
		var doc []byte
		if err := r.Scan(&doc); err != nil {
			return domain.InterviewSession{}, err
		}
		ss, err := decode(doc)
		if err != nil {
			return domain.InterviewSession{}, err
		}
		return *ss, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s: %w", userID, err)
	}

	return sessions, nil
}

func (p *Postgres) UpsertSession(ctx context.Context, ss *domain.InterviewSession) error {
	const stmt = `
INSERT INTO interview_sessions (session_id, user_id, started_at, doc)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id) DO UPDATE SET doc = EXCLUDED.doc;`

	doc, err := json.Marshal(ss)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", ss.SessionID, err)
	}

	if _, err := p.db.Exec(ctx, stmt, ss.SessionID, ss.UserID, ss.StartedAt, doc); err != nil {
		return fmt.Errorf("upsert session %s: %w", ss.SessionID, err)
	}

	return nil
}

func (p *Postgres) DeleteSession(ctx context.Context, sessionID string) error {
	const stmt = `DELETE FROM interview_sessions WHERE session_id = $1;`

	if _, err := p.db.Exec(ctx, stmt, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	return nil
}

func decode(doc []byte) (*domain.InterviewSession, error) {
	var ss domain.InterviewSession
	if err := json.Unmarshal(doc, &ss); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &ss, nil
}
