package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultQueryTimeout bounds a single store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// Messages returned with successful mutations.
const (
	MsgFeedbackSubmitted = "Feedback submitted successfully"
	MsgFeedbackUpdated   = "Feedback updated successfully"
	MsgFeedbackDeleted   = "Feedback deleted successfully"
)

// MsgMissingFields is the validation message for blank name or message.
const MsgMissingFields = "Please provide both name and message"

// FeedbackServiceInterface is the contract handlers depend on.
type FeedbackServiceInterface interface {
	List(ctx context.Context) ([]*types.Feedback, error)
	Get(ctx context.Context, id string) (*types.Feedback, error)
	Create(ctx context.Context, input *types.FeedbackInput) (*types.Feedback, error)
	Update(ctx context.Context, id string, input *types.FeedbackInput) (*types.Feedback, error)
	Delete(ctx context.Context, id string) (*types.Feedback, error)
}

// FeedbackService validates feedback input and persists it through a FeedbackStore.
type FeedbackService struct {
	store        store.FeedbackStore
	validate     *validator.Validate
	queryTimeout time.Duration
	now          func() time.Time
	log          *zap.SugaredLogger
	metrics      *feedbackMetrics
}

type feedbackMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var (
	fbMetricsInstance *feedbackMetrics
	fbMetricsOnce     sync.Once
	fbDefaultRegistry = prometheus.DefaultRegisterer
)

func newFeedbackMetrics() *feedbackMetrics {
	fbMetricsOnce.Do(func() {
		fbMetricsInstance = &feedbackMetrics{
			operations: promauto.With(fbDefaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "feedback_operations_total",
				Help: "Total number of feedback operations by operation and result",
			}, []string{"operation", "result"}),
			duration: promauto.With(fbDefaultRegistry).NewHistogramVec(prometheus.HistogramOpts{
				Name:    "feedback_store_duration_seconds",
				Help:    "Time spent in feedback store calls",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			}, []string{"operation"}),
		}
	})
	return fbMetricsInstance
}

// FeedbackServiceOption customizes a FeedbackService.
type FeedbackServiceOption func(*FeedbackService)

// WithClock sets the source of createdAt and updatedAt timestamps.
func WithClock(now func() time.Time) FeedbackServiceOption {
	return func(s *FeedbackService) {
		s.now = now
	}
}

// NewFeedbackService creates a FeedbackService. A non-positive queryTimeout
// falls back to DefaultQueryTimeout.
func NewFeedbackService(feedbackStore store.FeedbackStore, queryTimeout time.Duration, opts ...FeedbackServiceOption) *FeedbackService {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	s := &FeedbackService{
		store:        feedbackStore,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		queryTimeout: queryTimeout,
		now:          time.Now,
		log:          logger.GetLogger().Named("feedback-service"),
		metrics:      newFeedbackMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every feedback entry, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	var items []*types.Feedback
	err := s.withStore(ctx, "list", func(ctx context.Context) error {
		var err error
		items, err = s.store.ListFeedback(ctx)
		return err
	})
	if err != nil {
		return nil, apperrors.PersistenceFailed("Failed to fetch feedback", err)
	}
	if items == nil {
		items = []*types.Feedback{}
	}
	return items, nil
}

// Get returns a single feedback entry.
func (s *FeedbackService) Get(ctx context.Context, id string) (*types.Feedback, error) {
	if err := uuid.Validate(id); err != nil {
		s.metrics.operations.WithLabelValues("get", "not_found").Inc()
		return nil, apperrors.NotFound("Feedback", id)
	}

	var fb *types.Feedback
	err := s.withStore(ctx, "get", func(ctx context.Context) error {
		var err error
		fb, err = s.store.GetFeedback(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapStoreError(err, id, "Failed to fetch feedback")
	}
	return fb, nil
}

// Create validates input and inserts a new entry with a fresh id and
// createdAt == updatedAt.
func (s *FeedbackService) Create(ctx context.Context, input *types.FeedbackInput) (*types.Feedback, error) {
	if err := s.validateInput(input); err != nil {
		s.metrics.operations.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	// Version 7 ids grow monotonically within the process, so id DESC breaks
	// created_at ties in creation order.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.InternalServerError("Failed to submit feedback")
	}

	now := s.timestamp()
	fb := &types.Feedback{
		ID:        id.String(),
		Name:      input.Name,
		Message:   input.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created *types.Feedback
	err = s.withStore(ctx, "create", func(ctx context.Context) error {
		var err error
		created, err = s.store.CreateFeedback(ctx, fb)
		return err
	})
	if err != nil {
		return nil, apperrors.PersistenceFailed("Failed to submit feedback", err)
	}

	s.log.Infow("Feedback created", "feedbackID", created.ID)
	return created, nil
}

// Update overwrites name and message of an existing entry and refreshes updatedAt.
func (s *FeedbackService) Update(ctx context.Context, id string, input *types.FeedbackInput) (*types.Feedback, error) {
	if err := s.validateInput(input); err != nil {
		s.metrics.operations.WithLabelValues("update", "invalid").Inc()
		return nil, err
	}
	if err := uuid.Validate(id); err != nil {
		s.metrics.operations.WithLabelValues("update", "not_found").Inc()
		return nil, apperrors.NotFound("Feedback", id)
	}

	update := &types.FeedbackUpdate{
		Name:      input.Name,
		Message:   input.Message,
		UpdatedAt: s.timestamp(),
	}

	var updated *types.Feedback
	err := s.withStore(ctx, "update", func(ctx context.Context) error {
		var err error
		updated, err = s.store.UpdateFeedback(ctx, id, update)
		return err
	})
	if err != nil {
		return nil, s.mapStoreError(err, id, "Failed to update feedback")
	}

	s.log.Infow("Feedback updated", "feedbackID", id)
	return updated, nil
}

// Delete removes an entry and returns it as it was before removal.
func (s *FeedbackService) Delete(ctx context.Context, id string) (*types.Feedback, error) {
	if err := uuid.Validate(id); err != nil {
		s.metrics.operations.WithLabelValues("delete", "not_found").Inc()
		return nil, apperrors.NotFound("Feedback", id)
	}

	var deleted *types.Feedback
	err := s.withStore(ctx, "delete", func(ctx context.Context) error {
		var err error
		deleted, err = s.store.DeleteFeedback(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapStoreError(err, id, "Failed to delete feedback")
	}

	s.log.Infow("Feedback deleted", "feedbackID", id)
	return deleted, nil
}

// validateInput trims both fields in place and checks them against the
// struct's validate tags.
func (s *FeedbackService) validateInput(input *types.FeedbackInput) error {
	if input == nil {
		return apperrors.ValidationFailed(MsgMissingFields, "request body is required")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Message = strings.TrimSpace(input.Message)

	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.ValidationFailed(MsgMissingFields, err.Error())
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.ValidationFailed(MsgMissingFields, field+" is required")
	case "max":
		return apperrors.ValidationFailed(
			fmt.Sprintf("%s must be at most %s characters", capitalize(field), fe.Param()),
			fmt.Sprintf("%s is too long", field))
	default:
		return apperrors.ValidationFailed("Invalid feedback", fe.Error())
	}
}

// withStore runs fn under the query timeout and records its outcome.
func (s *FeedbackService) withStore(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	s.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		s.metrics.operations.WithLabelValues(op, "ok").Inc()
	case stderrors.Is(err, store.ErrNotFound):
		s.metrics.operations.WithLabelValues(op, "not_found").Inc()
	default:
		s.metrics.operations.WithLabelValues(op, "error").Inc()
		s.log.Errorw("Feedback store call failed", "op", op, "error", err)
	}
	return err
}

func (s *FeedbackService) mapStoreError(err error, id, message string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("Feedback", id)
	}
	return apperrors.PersistenceFailed(message, err)
}

// timestamp returns the current time in UTC at millisecond precision, the
// finest resolution every store keeps.
func (s *FeedbackService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
