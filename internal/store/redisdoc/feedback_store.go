// Package redisdoc stores feedback entries as JSON documents in Redis, with a
// sorted set indexing document ids by creation time.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/redis/go-redis/v9"
)

// Ensure FeedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*FeedbackStore)(nil)

const (
	defaultPrefix = "feedback"
	// maxTxRetries bounds optimistic-lock retries when a watched document changes mid-update.
	maxTxRetries = 5
)

// FeedbackStore implements store.FeedbackStore on Redis.
//
// Layout:
//
//	<prefix>:doc:<id>  string  JSON-encoded types.Feedback
//	<prefix>:index     zset    member=id, score=createdAt in unix milliseconds
type FeedbackStore struct {
	rdb    *redis.Client
	prefix string
}

// NewFeedbackStore creates a new FeedbackStore. An empty prefix selects "feedback".
func NewFeedbackStore(rdb *redis.Client, prefix string) *FeedbackStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &FeedbackStore{rdb: rdb, prefix: prefix}
}

// NewClient builds a Redis client from a redis:// or rediss:// URL and checks connectivity.
func NewClient(ctx context.Context, connURL string, poolSize int) (*redis.Client, error) {
	opts, err := redis.ParseURL(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *FeedbackStore) docKey(id string) string {
	return s.prefix + ":doc:" + id
}

func (s *FeedbackStore) indexKey() string {
	return s.prefix + ":index"
}

// ListFeedback returns all documents, newest first. Equal scores are returned
// in reverse lexicographic id order by ZREVRANGE.
func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback index: %w", err)
	}

	items := make([]*types.Feedback, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}

	docs, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// Index entry without a document: a delete raced this read.
			logger.GetLogger().Debugw("Skipping dangling feedback index entry", "feedbackID", ids[i])
			continue
		}
		fb, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feedback %s: %w", ids[i], err)
		}
		items = append(items, fb)
	}

	return items, nil
}

// GetFeedback retrieves a feedback document by its ID
func (s *FeedbackStore) GetFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	return s.get(ctx, s.rdb, id)
}

// CreateFeedback writes the document and its index entry in one MULTI/EXEC.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	raw, err := json.Marshal(fb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(fb.ID), raw, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: score(fb), Member: fb.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	created := *fb
	return &created, nil
}

// UpdateFeedback rewrites the document under WATCH so a concurrent delete or
// update of the same id aborts and retries instead of resurrecting the document.
func (s *FeedbackStore) UpdateFeedback(ctx context.Context, id string, update *types.FeedbackUpdate) (*types.Feedback, error) {
	var updated *types.Feedback
	key := s.docKey(id)

	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}

		current.Name = update.Name
		current.Message = update.Message
		current.UpdatedAt = update.UpdatedAt

		raw, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to encode feedback: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		if err == nil {
			updated = current
		}
		return err
	})
	if err != nil {
		return nil, wrap("update", err)
	}
	return updated, nil
}

// DeleteFeedback removes the document and its index entry atomically.
func (s *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	var removed *types.Feedback
	key := s.docKey(id)

	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, s.indexKey(), id)
			return nil
		})
		if err == nil {
			removed = current
		}
		return err
	})
	if err != nil {
		return nil, wrap("delete", err)
	}
	return removed, nil
}

// Ping checks Redis connectivity.
func (s *FeedbackStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *FeedbackStore) Close() error {
	return s.rdb.Close()
}

func (s *FeedbackStore) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.rdb.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		logger.GetLogger().Debugw("Feedback document changed during transaction, retrying", "key", key, "attempt", attempt+1)
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxTxRetries, redis.TxFailedErr)
}

func (s *FeedbackStore) get(ctx context.Context, c redis.Cmdable, id string) (*types.Feedback, error) {
	raw, err := c.Get(ctx, s.docKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	fb, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feedback %s: %w", id, err)
	}
	return fb, nil
}

func decode(raw string) (*types.Feedback, error) {
	var fb types.Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, err
	}
	fb.CreatedAt = fb.CreatedAt.UTC()
	fb.UpdatedAt = fb.UpdatedAt.UTC()
	return &fb, nil
}

func score(fb *types.Feedback) float64 {
	return float64(fb.CreatedAt.UnixMilli())
}

func wrap(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("failed to %s feedback: %w", op, err)
}
