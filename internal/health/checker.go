package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

const (
	StatusUp   = "up"
	StatusDown = "down"
)

// Pinger is satisfied by the opened store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult is the top-level health response.
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies that the store is reachable and holds the readiness gate:
// the service reports ready only after MarkReady, which the server calls once
// the store is connected and its schema is in place.
type Checker struct {
	db         Pinger
	dependency string
	ready      atomic.Bool
	logger     *slog.Logger
	gauge      *prometheus.GaugeVec
}

// NewChecker creates a health checker and registers its Prometheus gauge.
func NewChecker(db Pinger, dependency string, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "eventflow",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		db:         db,
		dependency: dependency,
		logger:     logger.With("component", "health"),
		gauge:      gauge,
	}
}

func (c *Checker) MarkReady() {
	c.ready.Store(true)
}

func (c *Checker) IsReady() bool {
	return c.ready.Load()
}

// Liveness returns a simple "up" response if the process is running.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: StatusUp}
}

// Readiness reports down until MarkReady has been called, then pings the store.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	result := HealthResult{
		Status: StatusUp,
		Checks: make(map[string]CheckResult),
	}

	if !c.IsReady() {
		result.Status = StatusDown
		result.Checks["startup"] = CheckResult{Status: StatusDown, Error: "not ready"}
		return result
	}

	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.db.Ping(checkCtx); err != nil {
		c.logger.Warn("store health check failed", "dependency", c.dependency, "error", err)
		result.Status = StatusDown
		result.Checks[c.dependency] = CheckResult{Status: StatusDown, Error: err.Error()}
		c.gauge.WithLabelValues(c.dependency).Set(0)
	} else {
		result.Checks[c.dependency] = CheckResult{Status: StatusUp}
		c.gauge.WithLabelValues(c.dependency).Set(1)
	}

	return result
}

// StartProbe runs Readiness on the given cron schedule so the gauge stays
// current between scrapes of /readyz. It stops when ctx is cancelled.
func (c *Checker) StartProbe(ctx context.Context, spec string) error {
	sched := cron.New()
	if _, err := sched.AddFunc(spec, func() { c.Readiness(ctx) }); err != nil {
		return fmt.Errorf("health probe schedule %q: %w", spec, err)
	}
	sched.Start()

	go func() {
		<-ctx.Done()
		<-sched.Stop().Done()
	}()
	return nil
}
