// Package stats periodically samples table sizes into Prometheus gauges.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gamevault/gamevault/internal/playsession"
)

var (
	usersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gamevault",
		Name:      "users",
		Help:      "Number of registered users.",
	})

	sessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gamevault",
		Name:      "play_sessions",
		Help:      "Number of recorded play sessions.",
	})
)

// UserCounter counts users.
type UserCounter interface {
	CountAll(ctx context.Context) (int, error)
}

// SessionLister lists play sessions. Only the total is read.
type SessionLister interface {
	List(ctx context.Context, filter playsession.ListFilter) (*playsession.ListResult, error)
}

// Collector refreshes the gauges on a fixed interval.
type Collector struct {
	users    UserCounter
	sessions SessionLister
	interval time.Duration
}

// New creates a new Collector.
func New(users UserCounter, sessions SessionLister, interval time.Duration) *Collector {
	return &Collector{
		users:    users,
		sessions: sessions,
		interval: interval,
	}
}

// Start samples once immediately and then on every tick. It blocks until ctx
// is cancelled.
func (c *Collector) Start(ctx context.Context) {
	slog.Info("stats collector started", "interval", c.interval.String())
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Collect(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("stats collector stopped")
			return
		case <-ticker.C:
			c.Collect(ctx)
		}
	}
}

// Collect samples both tables once. Failures are logged and leave the previous
// gauge value in place.
func (c *Collector) Collect(ctx context.Context) {
	if n, err := c.users.CountAll(ctx); err != nil {
		slog.Warn("stats: failed to count users", "error", err)
	} else {
		usersGauge.Set(float64(n))
	}

	if ctx.Err() != nil {
		return
	}

	result, err := c.sessions.List(ctx, playsession.ListFilter{Page: 1, Limit: 1})
	if err != nil {
		slog.Warn("stats: failed to count play sessions", "error", err)
		return
	}
	sessionsGauge.Set(float64(result.Total))
}
