package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"go.uber.org/zap"
)

// slowPingThreshold marks the store as degraded when a ping succeeds but
// takes longer than this.
const slowPingThreshold = 500 * time.Millisecond

// Pinger is the part of a store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	store     Pinger
	backend   string
	version   string
	startTime time.Time
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewHealthService(store Pinger, backend, version string) *HealthService {
	return &HealthService{
		store:     store,
		backend:   backend,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
		log:       logger.GetLogger(),
	}
}

// Ping reports liveness only; it never touches the store.
func (h *HealthService) Ping() types.Ping {
	return types.Ping{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)

	storeStatus := h.checkStore(ctx)
	components["store"] = storeStatus

	return types.HealthCheck{
		Status:     storeStatus.Status,
		Components: components,
		Version:    h.version,
		Timestamp:  h.now().UTC().Format(time.RFC3339),
		Uptime:     h.now().Sub(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkStore(ctx context.Context) types.HealthComponent {
	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Errorw("Store health check failed", "backend", h.backend, "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: fmt.Sprintf("%s connection failed", h.backend),
		}
	}

	if elapsed := time.Since(start); elapsed > slowPingThreshold {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: fmt.Sprintf("%s ping took %s", h.backend, elapsed.Round(time.Millisecond)),
		}
	}

	return types.HealthComponent{
		Status:  types.HealthStatusUp,
		Details: h.backend,
	}
}
