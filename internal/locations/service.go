// Package locations serves display-ready capture locations with a short-lived
// cache and a mock fallback that keeps the UI populated when the gateway is
// unreachable or unconfigured.
package locations

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/gateway"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a live result is served from cache.
const DefaultTTL = 5 * time.Minute

// resourceNotFound marks a gateway whose backing table is missing or unreadable.
const resourceNotFound = "ResourceNotFoundException"

// Source tells where a Result's locations came from.
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
	SourceMock  Source = "mock"
)

// Result is the outcome of a fetch. Locations is always displayable; when
// Source is SourceMock, Err holds the failure that triggered the fallback.
type Result struct {
	Locations []domain.DisplayRecord
	Source    Source
	FetchedAt time.Time
	Err       error
}

// Service fetches, transforms, and caches capture locations.
type Service struct {
	source   domain.CaptureSource
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	ttl      time.Duration
	limit    int
	fallback func() []domain.DisplayRecord

	mu        sync.Mutex
	cache     []domain.DisplayRecord
	hasCache  bool
	lastFetch time.Time
	usingMock bool
	lastErr   string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for cache expiry.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithTTL sets the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithDefaultLimit sets the limit used when a query leaves it unset.
func WithDefaultLimit(n int) Option {
	return func(s *Service) { s.limit = n }
}

// WithFallback replaces the mock data set returned on failure.
func WithFallback(f func() []domain.DisplayRecord) Option {
	return func(s *Service) { s.fallback = f }
}

// NewService creates a Service over the given capture source.
func NewService(source domain.CaptureSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		source:   source,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		ttl:      DefaultTTL,
		limit:    domain.DefaultLimit,
		fallback: domain.MockLocations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchLocations returns the current locations. A cached live result is
// returned unchanged while it is fresh, regardless of q. Failures never
// propagate: the mock set is returned and the failure recorded.
func (s *Service) FetchLocations(ctx context.Context, q domain.Query) Result {
	if q.Limit <= 0 {
		q.Limit = s.limit
	}

	now := s.clock.Now()
	if cached, at, ok := s.cached(now); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		s.logger.Debug("using cached locations", "count", len(cached))
		return Result{Locations: cached, Source: SourceCache, FetchedAt: at}
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	raws, err := s.source.FetchRecords(ctx, q)
	if err != nil {
		return s.fallBack(now, err)
	}

	locations := domain.TransformItems(raws)

	s.mu.Lock()
	s.cache = locations
	s.hasCache = true
	s.lastFetch = now
	s.usingMock = false
	s.lastErr = ""
	s.mu.Unlock()

	s.metrics.UsingMockData.Set(0)
	s.metrics.LocationsFetched.Set(float64(len(locations)))
	s.logger.Info("fetched locations", "count", len(locations), "device_name", q.DeviceName)

	return Result{Locations: locations, Source: SourceLive, FetchedAt: now}
}

// LocationByID returns the location with the given capture id from the
// current (possibly mock) listing.
func (s *Service) LocationByID(ctx context.Context, captureID string) (domain.DisplayRecord, bool) {
	res := s.FetchLocations(ctx, domain.Query{})
	for _, loc := range res.Locations {
		if loc.CaptureID == captureID {
			return loc, true
		}
	}
	return domain.DisplayRecord{}, false
}

// LocationsByDevice fetches locations filtered by device name.
func (s *Service) LocationsByDevice(ctx context.Context, deviceName string) Result {
	return s.FetchLocations(ctx, domain.Query{DeviceName: deviceName})
}

// UsingMockData reports whether the last fetch fell back to mock data.
func (s *Service) UsingMockData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usingMock
}

// LastError returns the message of the last fetch failure, or "" when the
// last fetch succeeded.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Invalidate drops the cached result so the next fetch goes to the gateway.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.hasCache = false
	s.lastFetch = time.Time{}
}

func (s *Service) cached(now time.Time) ([]domain.DisplayRecord, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCache || s.usingMock || now.Sub(s.lastFetch) >= s.ttl {
		return nil, time.Time{}, false
	}
	return s.cache, s.lastFetch, true
}

func (s *Service) fallBack(now time.Time, err error) Result {
	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	reason := gateway.Reason(err)

	s.mu.Lock()
	s.usingMock = true
	s.lastErr = msg
	s.mu.Unlock()

	s.metrics.UsingMockData.Set(1)
	s.metrics.MockFallbacks.WithLabelValues(reason).Inc()

	switch {
	case reason == gateway.ReasonConfiguration:
		s.logger.Warn("captures API endpoint not configured, using mock data")
	case strings.Contains(msg, resourceNotFound):
		s.logger.Warn("captures table not found, using mock data",
			"error", msg,
			"hint", "ensure the table exists, the gateway function uses the correct table name, and its role can read the table",
		)
	default:
		s.logger.Warn("captures API error, using mock data", "reason", reason, "error", msg)
	}

	return Result{Locations: s.fallback(), Source: SourceMock, FetchedAt: now, Err: err}
}
