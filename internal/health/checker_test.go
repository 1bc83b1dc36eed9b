package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/the-abed/event-flow-server/internal/health"
)

type mockPinger struct {
	err   error
	calls int
}

func (m *mockPinger) Ping(_ context.Context) error {
	m.calls++
	return m.err
}

func newTestChecker(p health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(p, "postgres", logger, reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{err: errors.New("db down")})

	result := c.Liveness(context.Background())
	if result.Status != health.StatusUp {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_DownUntilMarkedReady(t *testing.T) {
	p := &mockPinger{}
	c, _ := newTestChecker(p)

	result := c.Readiness(context.Background())
	if result.Status != health.StatusDown {
		t.Fatalf("expected status down before MarkReady, got %s", result.Status)
	}
	if p.calls != 0 {
		t.Errorf("store pinged %d times before the gate opened", p.calls)
	}

	c.MarkReady()
	if !c.IsReady() {
		t.Fatal("IsReady = false after MarkReady")
	}
	if result := c.Readiness(context.Background()); result.Status != health.StatusUp {
		t.Fatalf("expected status up after MarkReady, got %s", result.Status)
	}
}

func TestReadiness_StoreUp(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{})
	c.MarkReady()

	result := c.Readiness(context.Background())
	if result.Status != health.StatusUp {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	pg, ok := result.Checks["postgres"]
	if !ok {
		t.Fatal("missing postgres check")
	}
	if pg.Status != health.StatusUp {
		t.Fatalf("expected postgres up, got %s", pg.Status)
	}

	if got := testGauge(t, reg, "eventflow_health_check_up", "postgres"); got != 1 {
		t.Fatalf("expected gauge 1, got %f", got)
	}
}

func TestReadiness_StoreDown(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{err: errors.New("connection refused")})
	c.MarkReady()

	result := c.Readiness(context.Background())
	if result.Status != health.StatusDown {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != health.StatusDown {
		t.Fatalf("expected postgres down, got %s", pg.Status)
	}
	if pg.Error == "" {
		t.Fatal("expected error message")
	}

	if got := testGauge(t, reg, "eventflow_health_check_up", "postgres"); got != 0 {
		t.Fatalf("expected gauge 0, got %f", got)
	}
}

func TestStartProbe_InvalidSpec(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.StartProbe(ctx, "not a cron spec"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if err := c.StartProbe(ctx, "@every 1m"); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}
