package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/store"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("finding a missing session should report not found", func(t *testing.T) {
		m := store.NewMemory()

		_, err := m.FindSession(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, store.ReasonSessionNotFound))
	})

	t.Run("upsert should replace the whole document", func(t *testing.T) {
		m := store.NewMemory()

		ss := &domain.InterviewSession{
			SessionID: "s1",
			UserID:    "u1",
			Role:      "software engineer",
			Status:    domain.StatusActive,
			StartedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, m.UpsertSession(ctx, ss))

		ss.Status = domain.StatusCompleted
		require.NoError(t, m.UpsertSession(ctx, ss))

		got, err := m.FindSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, got.Status)
	})

	t.Run("stored documents should be isolated from caller mutation", func(t *testing.T) {
		m := store.NewMemory()

		ss := &domain.InterviewSession{SessionID: "s1", Role: "software engineer"}
		require.NoError(t, m.UpsertSession(ctx, ss))

		ss.Role = "mutated"

		got, err := m.FindSession(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "software engineer", got.Role)
	})

	t.Run("listing should filter by user and start time, ascending", func(t *testing.T) {
		m := store.NewMemory()

		base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		for _, ss := range []*domain.InterviewSession{
			{SessionID: "s1", UserID: "u1", StartedAt: base.AddDate(0, 0, 2)},
			{SessionID: "s2", UserID: "u1", StartedAt: base},
			{SessionID: "s3", UserID: "u2", StartedAt: base.AddDate(0, 0, 1)},
			{SessionID: "s4", UserID: "u1", StartedAt: base.AddDate(0, 0, 4)},
		} {
			require.NoError(t, m.UpsertSession(ctx, ss))
		}

		sessions, err := m.ListSessionsByUser(ctx, "u1", time.Time{})
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "s2", sessions[0].SessionID)
		assert.Equal(t, "s1", sessions[1].SessionID)
		assert.Equal(t, "s4", sessions[2].SessionID)

		sessions, err = m.ListSessionsByUser(ctx, "u1", base.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "s1", sessions[0].SessionID)
	})

	t.Run("delete should remove the session", func(t *testing.T) {
		m := store.NewMemory()

		require.NoError(t, m.UpsertSession(ctx, &domain.InterviewSession{SessionID: "s1"}))
		require.NoError(t, m.DeleteSession(ctx, "s1"))

		_, err := m.FindSession(ctx, "s1")
		require.Error(t, err)
	})
}
