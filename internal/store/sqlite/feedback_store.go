// Package sqlite implements the feedback store on an embedded SQLite database
// through gorm. It backs local development and the end-to-end API tests.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Ensure FeedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*FeedbackStore)(nil)

// feedbackRecord is the gorm model of the feedback table.
type feedbackRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"size:100;not null"`
	Message   string    `gorm:"size:1000;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_feedback_created_at;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (feedbackRecord) TableName() string {
	return "feedback"
}

func toRecord(fb *types.Feedback) *feedbackRecord {
	return &feedbackRecord{
		ID:        fb.ID,
		Name:      fb.Name,
		Message:   fb.Message,
		CreatedAt: fb.CreatedAt.UTC(),
		UpdatedAt: fb.UpdatedAt.UTC(),
	}
}

func (r *feedbackRecord) toFeedback() *types.Feedback {
	return &types.Feedback{
		ID:        r.ID,
		Name:      r.Name,
		Message:   r.Message,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// FeedbackStore implements store.FeedbackStore with gorm.
type FeedbackStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database named by connURL and
// auto-migrates the feedback table. Accepted forms: sqlite:///abs/path.db,
// sqlite://rel/path.db and sqlite::memory:.
func Open(connURL string) (*FeedbackStore, error) {
	db, err := gorm.Open(sqlite.Open(dsnFromURL(connURL)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	return NewFeedbackStore(db)
}

// NewFeedbackStore wraps an existing gorm handle and migrates the feedback table.
func NewFeedbackStore(db *gorm.DB) (*FeedbackStore, error) {
	if err := db.AutoMigrate(&feedbackRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate feedback table: %w", err)
	}
	return &FeedbackStore{db: db}, nil
}

func dsnFromURL(connURL string) string {
	switch {
	case connURL == "sqlite::memory:" || connURL == "sqlite://:memory:":
		return ":memory:"
	case strings.HasPrefix(connURL, "sqlite://"):
		return strings.TrimPrefix(connURL, "sqlite://")
	case strings.HasPrefix(connURL, "sqlite:"):
		return strings.TrimPrefix(connURL, "sqlite:")
	default:
		return connURL
	}
}

// ListFeedback returns all feedback, newest first.
func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	var records []feedbackRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	items := make([]*types.Feedback, 0, len(records))
	for i := range records {
		items = append(items, records[i].toFeedback())
	}
	return items, nil
}

// GetFeedback retrieves a feedback entry by its ID
func (s *FeedbackStore) GetFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	rec, err := first(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, wrap("get", err)
	}
	return rec.toFeedback(), nil
}

// CreateFeedback inserts a new feedback entry.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	rec := toRecord(fb)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return rec.toFeedback(), nil
}

// UpdateFeedback overwrites name, message and updated_at inside a transaction.
func (s *FeedbackStore) UpdateFeedback(ctx context.Context, id string, update *types.FeedbackUpdate) (*types.Feedback, error) {
	var updated *types.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := first(tx, id)
		if err != nil {
			return err
		}

		rec.Name = update.Name
		rec.Message = update.Message
		rec.UpdatedAt = update.UpdatedAt.UTC()

		if err := tx.Model(rec).Select("name", "message", "updated_at").Updates(rec).Error; err != nil {
			return err
		}
		updated = rec.toFeedback()
		return nil
	})
	if err != nil {
		return nil, wrap("update", err)
	}
	return updated, nil
}

// DeleteFeedback permanently removes a feedback entry and returns it.
func (s *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	var removed *types.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := first(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&feedbackRecord{}, "id = ?", id).Error; err != nil {
			return err
		}
		removed = rec.toFeedback()
		return nil
	})
	if err != nil {
		return nil, wrap("delete", err)
	}
	return removed, nil
}

// Ping checks that the database handle is usable.
func (s *FeedbackStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *FeedbackStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func first(db *gorm.DB, id string) (*feedbackRecord, error) {
	var rec feedbackRecord
	if err := db.Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func wrap(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("failed to %s feedback: %w", op, err)
}
