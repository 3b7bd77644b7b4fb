package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/cache"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/metrics"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/pipeline/stock_health"
	"github.com/rs/zerolog/log"
)

// ErrUnknownView is returned by Render for a view outside overview/explorer.
var ErrUnknownView = errors.New("unknown view")

// lockedRand serializes draws; *rand.Rand is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	src stock_health.RandSource
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

// DashboardService renders the dashboard views from a Table loaded once at
// startup. The Table is shared read-only across requests.
type DashboardService struct {
	table    *domain.Table
	pipeline *stock_health.Pipeline
	cache    cache.ExplorerCache
	metrics  *metrics.Metrics
	rnd      *lockedRand
	now      func() time.Time
}

type Option func(*DashboardService)

// WithClock overrides the source of "today" when a request carries no as-of date.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DashboardService) { s.metrics = m }
}

// NewDashboardService wires a service. A nil cache disables caching and a nil
// rnd draws from a clock-seeded source.
func NewDashboardService(table *domain.Table, pipeline *stock_health.Pipeline, cacheImpl cache.ExplorerCache, rnd stock_health.RandSource, opts ...Option) *DashboardService {
	if table == nil {
		table = domain.NewTable(nil)
	}
	if pipeline == nil {
		pipeline = stock_health.NewPipeline(stock_health.DefaultConfig())
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopExplorerCache()
	}
	if rnd == nil {
		rnd = stock_health.NewRandSource(uint64(time.Now().UnixNano()))
	}

	s := &DashboardService{
		table:    table,
		pipeline: pipeline,
		cache:    cacheImpl,
		rnd:      &lockedRand{src: rnd},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.SetDatasetRows(table.Len())
	}
	return s
}

// Table returns the loaded dataset.
func (s *DashboardService) Table() *domain.Table {
	return s.table
}

func (s *DashboardService) today(asOf time.Time) time.Time {
	if asOf.IsZero() {
		asOf = s.now()
	}
	return stock_health.CalendarDate(asOf)
}

func (s *DashboardService) recordRender(view domain.ViewMode) {
	if s.metrics != nil {
		s.metrics.RecordRender(string(view))
	}
}

// Overview renders the overview. A zero asOf means today.
func (s *DashboardService) Overview(ctx context.Context, asOf time.Time) *domain.OverviewDashboard {
	s.recordRender(domain.ViewOverview)
	return s.pipeline.Overview(s.table, s.today(asOf), s.rnd)
}

// Explorer renders the explorer for filter. Results are deterministic for a
// given dataset, filter and date, so they go through the explorer cache.
func (s *DashboardService) Explorer(ctx context.Context, filter domain.ExplorerFilter, asOf time.Time) *domain.ExplorerDashboard {
	s.recordRender(domain.ViewExplorer)

	today := s.today(asOf)
	filter = filter.Normalize()
	key := cache.ExplorerKey{
		Fingerprint: s.table.Fingerprint(),
		Filter:      filter,
		AsOf:        today.Format(domain.DateLayout),
	}

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: explorer cache get failed")
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ok)
	}
	if ok {
		return cached
	}

	dashboard := s.pipeline.Explorer(s.table, filter, today)

	if err := s.cache.Set(ctx, key, dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard: explorer cache set failed")
	}

	return dashboard
}

// Render dispatches on the view selection.
func (s *DashboardService) Render(ctx context.Context, view domain.ViewMode, filter domain.ExplorerFilter, asOf time.Time) (*domain.Dashboard, error) {
	switch view {
	case domain.ViewOverview:
		return &domain.Dashboard{View: view, Overview: s.Overview(ctx, asOf)}, nil
	case domain.ViewExplorer:
		return &domain.Dashboard{View: view, Explorer: s.Explorer(ctx, filter, asOf)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// FilterOptions lists the explorer choices for the loaded dataset.
func (s *DashboardService) FilterOptions(ctx context.Context) domain.FilterOptions {
	return s.pipeline.FilterOptions(s.table)
}
