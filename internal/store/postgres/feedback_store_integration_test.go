//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) *FeedbackStore {
	logger.IsTest = true
	ctx := context.Background()

	container, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("student_feedback"),
		postgresContainer.WithUsername("test"),
		postgresContainer.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(connURL))
	// A second run must be a no-op.
	require.NoError(t, RunMigrations(connURL))

	pool, err := NewPool(ctx, connURL, 4)
	require.NoError(t, err)

	s := NewFeedbackStore(pool)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFeedbackStore_Integration(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	var ids []string
	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		created, err := s.CreateFeedback(ctx, &types.Feedback{
			ID:        uuid.NewString(),
			Name:      name,
			Message:   "message from " + name,
			CreatedAt: at,
			UpdatedAt: at,
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	t.Run("list is newest first", func(t *testing.T) {
		items, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{items[0].ID, items[1].ID, items[2].ID})
	})

	t.Run("update keeps id and created_at", func(t *testing.T) {
		before, err := s.GetFeedback(ctx, ids[0])
		require.NoError(t, err)

		later := base.Add(time.Hour)
		updated, err := s.UpdateFeedback(ctx, ids[0], &types.FeedbackUpdate{Name: "edited", Message: "edited message", UpdatedAt: later})
		require.NoError(t, err)
		assert.Equal(t, before.ID, updated.ID)
		assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, later.Equal(updated.UpdatedAt))
	})

	t.Run("delete twice", func(t *testing.T) {
		removed, err := s.DeleteFeedback(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, ids[1], removed.ID)

		_, err = s.DeleteFeedback(ctx, ids[1])
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
