package service

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// warmFilters lists the selections a first visit is likely to hit: no filter,
// then each warehouse, buyer and category on its own.
func warmFilters(opts domain.FilterOptions) []domain.ExplorerFilter {
	filters := []domain.ExplorerFilter{{}}
	for _, w := range opts.Warehouses {
		if w != domain.AllOption {
			filters = append(filters, domain.ExplorerFilter{Warehouse: w})
		}
	}
	for _, b := range opts.Buyers {
		if b != domain.AllOption {
			filters = append(filters, domain.ExplorerFilter{Buyer: b})
		}
	}
	for _, c := range opts.Categories {
		if c != domain.AllOption {
			filters = append(filters, domain.ExplorerFilter{Category: c})
		}
	}
	return filters
}

// WarmExplorerCache renders the common explorer selections for today with a
// pool of workers so the first requests hit the cache. It returns the number
// of selections rendered.
func (s *DashboardService) WarmExplorerCache(ctx context.Context, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	asOf := s.today(time.Time{})
	filters := warmFilters(s.FilterOptions(ctx))

	jobChan := make(chan domain.ExplorerFilter, len(filters))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rendered int
	)

	// Start workers
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filter := range jobChan {
				if ctx.Err() != nil {
					continue
				}
				s.Explorer(ctx, filter, asOf)
				mu.Lock()
				rendered++
				mu.Unlock()
			}
		}()
	}

	// Enqueue jobs
	var err error
enqueue:
	for _, filter := range filters {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break enqueue
		case jobChan <- filter:
		}
	}
	close(jobChan)

	wg.Wait()

	log.Info().
		Int("rendered", rendered).
		Int("selections", len(filters)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("Explorer cache warmed")

	return rendered, err
}
