// Package backend selects and opens the feedback store named by the
// configured connection URL.
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/internal/store/postgres"
	"github.com/NomadCrew/feedback-service/internal/store/redisdoc"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/logger"
)

// Kind identifies a store implementation.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
	KindSQLite   Kind = "sqlite"
)

// KindFromURL maps a connection URL scheme to a store kind.
func KindFromURL(connURL string) (Kind, error) {
	scheme := connURL
	if idx := strings.Index(connURL, ":"); idx != -1 {
		scheme = connURL[:idx]
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return KindPostgres, nil
	case "redis", "rediss":
		return KindRedis, nil
	case "sqlite":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database URL scheme %q", scheme)
	}
}

// Open connects to the configured store. For postgres it applies the
// baseline schema first when cfg.RunMigrations is set.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (store.FeedbackStore, Kind, error) {
	log := logger.GetLogger()

	kind, err := KindFromURL(cfg.URL)
	if err != nil {
		return nil, "", err
	}

	log.Infow("Opening feedback store",
		"backend", kind,
		"url", logger.MaskConnectionString(cfg.URL))

	switch kind {
	case KindPostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.URL); err != nil {
				return nil, kind, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.URL, cfg.MaxConnections)
		if err != nil {
			return nil, kind, err
		}
		return postgres.NewFeedbackStore(pool), kind, nil

	case KindRedis:
		connURL, prefix := splitRedisPrefix(cfg.URL)
		rdb, err := redisdoc.NewClient(ctx, connURL, cfg.MaxConnections)
		if err != nil {
			return nil, kind, err
		}
		return redisdoc.NewFeedbackStore(rdb, prefix), kind, nil

	default:
		s, err := sqlite.Open(cfg.URL)
		if err != nil {
			return nil, kind, err
		}
		return s, kind, nil
	}
}

// splitRedisPrefix removes the optional ?prefix= query parameter, which lets
// several deployments share one Redis database, from a redis URL.
// go-redis rejects query options it does not know.
func splitRedisPrefix(connURL string) (string, string) {
	u, err := url.Parse(connURL)
	if err != nil {
		return connURL, ""
	}
	q := u.Query()
	prefix := q.Get("prefix")
	q.Del("prefix")
	u.RawQuery = q.Encode()
	return u.String(), prefix
}
