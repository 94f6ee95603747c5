// Package watch polls the locations service and publishes a snapshot
// whenever the live listing changes.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/locations"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/jonboulle/clockwork"
)

// LocationFetcher returns the current locations listing.
type LocationFetcher interface {
	FetchLocations(ctx context.Context, q domain.Query) locations.Result
}

// SnapshotPublisher writes a full locations snapshot to a downstream sink.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, fetchedAt time.Time, locs []domain.DisplayRecord) error
}

// Watcher runs the poll-compare-publish loop.
type Watcher struct {
	fetcher   LocationFetcher
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration
	query     domain.Query
	ready     atomic.Bool

	// last is the risk per capture id of the last published snapshot.
	last      map[string]domain.RiskLevel
	published bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock sets the clock driving the poll ticker.
func WithClock(c clockwork.Clock) Option {
	return func(w *Watcher) { w.clock = c }
}

// WithQuery sets the query used on every poll.
func WithQuery(q domain.Query) Option {
	return func(w *Watcher) { w.query = q }
}

// New creates a Watcher. A nil publisher turns the watcher into a
// change logger that never publishes.
func New(f LocationFetcher, p SnapshotPublisher, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, opts ...Option) *Watcher {
	w := &Watcher{
		fetcher:   f,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		interval:  interval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CheckReadiness returns nil once a poll has produced live data.
func (w *Watcher) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("watcher has not fetched live locations yet")
	}
	return nil
}

// Run polls immediately and then on every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started", "interval", w.interval, "publishing", w.publisher != nil)
	w.metrics.WatcherRunning.Set(1)
	defer w.metrics.WatcherRunning.Set(0)

	w.poll(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			w.poll(ctx)
		}
	}
}

// poll runs one fetch-compare-publish cycle.
func (w *Watcher) poll(ctx context.Context) {
	start := w.clock.Now()
	res := w.fetcher.FetchLocations(ctx, w.query)
	w.metrics.PollDuration.Observe(w.clock.Since(start).Seconds())

	if res.Source == locations.SourceMock {
		if ctx.Err() == nil {
			w.logger.Warn("live locations unavailable, skipping publish", "error", res.Err)
		}
		return
	}
	w.ready.Store(true)

	if !w.changed(res.Locations) {
		w.logger.Debug("locations unchanged", "count", len(res.Locations), "source", res.Source)
		return
	}

	if w.publisher != nil {
		if err := w.publisher.PublishSnapshot(ctx, res.FetchedAt, res.Locations); err != nil {
			w.metrics.PublishErrors.Inc()
			w.logger.Error("publish snapshot failed", "error", err, "count", len(res.Locations))
			return
		}
		w.metrics.SnapshotsPublished.Inc()
	}

	w.remember(res.Locations)
	w.logger.Info("locations changed", "count", len(res.Locations), "source", res.Source)
}

// changed reports whether locs differs from the last published snapshot in
// its set of capture ids or in any capture's risk.
func (w *Watcher) changed(locs []domain.DisplayRecord) bool {
	if !w.published {
		return true
	}
	if len(locs) != len(w.last) {
		return true
	}
	for i := range locs {
		risk, ok := w.last[locs[i].CaptureID]
		if !ok || risk != locs[i].Risk {
			return true
		}
	}
	return false
}

func (w *Watcher) remember(locs []domain.DisplayRecord) {
	last := make(map[string]domain.RiskLevel, len(locs))
	for i := range locs {
		last[locs[i].CaptureID] = locs[i].Risk
	}
	w.last = last
	w.published = true
}
