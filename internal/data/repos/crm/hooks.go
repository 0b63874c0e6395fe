package crm

import (
	"time"

	"github.com/yungbote/clientcontacts-backend/internal/observability"
)

// Hooks captures store-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, rows int, dur time.Duration)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, int, time.Duration) {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates store hooks backed by observability metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, rows int, dur time.Duration) {
	h.metrics.ObserveStoreOperation(name, status, rows, dur)
}
