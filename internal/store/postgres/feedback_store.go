package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure FeedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*FeedbackStore)(nil)

// DBTX is the subset of *pgxpool.Pool used by FeedbackStore. pgxmock.PgxPoolIface
// satisfies it as well.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

const feedbackColumns = `id::text, name, message, created_at, updated_at`

// FeedbackStore implements store.FeedbackStore on a PostgreSQL "feedback" table.
type FeedbackStore struct {
	db DBTX
}

// NewFeedbackStore creates a new FeedbackStore over an open pool.
func NewFeedbackStore(db DBTX) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// NewPool parses connURL, caps the pool at maxConns (when positive) and
// verifies connectivity before returning.
func NewPool(ctx context.Context, connURL string, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// ListFeedback returns all feedback, newest first.
func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := make([]*types.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return items, nil
}

// GetFeedback retrieves a feedback entry by its ID
func (s *FeedbackStore) GetFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE id = $1`

	return s.queryOne(ctx, "get", query, id)
}

// CreateFeedback inserts a new feedback entry.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	query := `
		INSERT INTO feedback (id, name, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + feedbackColumns

	return s.queryOne(ctx, "create", query,
		fb.ID,
		fb.Name,
		fb.Message,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
}

// UpdateFeedback overwrites name, message and updated_at in a single statement.
func (s *FeedbackStore) UpdateFeedback(ctx context.Context, id string, update *types.FeedbackUpdate) (*types.Feedback, error) {
	query := `
		UPDATE feedback
		SET name = $1,
			message = $2,
			updated_at = $3
		WHERE id = $4
		RETURNING ` + feedbackColumns

	return s.queryOne(ctx, "update", query,
		update.Name,
		update.Message,
		update.UpdatedAt,
		id,
	)
}

// DeleteFeedback permanently removes a feedback entry and returns it.
func (s *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	query := `
		DELETE FROM feedback
		WHERE id = $1
		RETURNING ` + feedbackColumns

	return s.queryOne(ctx, "delete", query, id)
}

// Ping checks database connectivity.
func (s *FeedbackStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying pool.
func (s *FeedbackStore) Close() error {
	s.db.Close()
	return nil
}

func (s *FeedbackStore) queryOne(ctx context.Context, op, query string, args ...any) (*types.Feedback, error) {
	fb, err := scanFeedback(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to %s feedback: %w", op, err)
	}
	return fb, nil
}

func scanFeedback(row pgx.Row) (*types.Feedback, error) {
	fb := &types.Feedback{}
	err := row.Scan(
		&fb.ID,
		&fb.Name,
		&fb.Message,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	fb.CreatedAt = fb.CreatedAt.UTC()
	fb.UpdatedAt = fb.UpdatedAt.UTC()
	return fb, nil
}
