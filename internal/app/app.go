// Package app holds the start-up wiring shared by the server and the CLI.
package app

import (
	"context"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/dataset"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/pipeline/stock_health"
	"github.com/rs/zerolog/log"
)

// PipelineConfig maps the insight settings onto the pipeline thresholds.
// Unset values fall back to the pipeline defaults.
func PipelineConfig(in config.InsightsConfig) stock_health.Config {
	cfg := stock_health.DefaultConfig()
	if in.SampleSize > 0 {
		cfg.SampleSize = in.SampleSize
	}
	if in.OverviewExpiryDays > 0 {
		cfg.OverviewExpiryDays = in.OverviewExpiryDays
	}
	if in.ExplorerExpiryDays > 0 {
		cfg.ExplorerExpiryDays = in.ExplorerExpiryDays
	}
	return cfg
}

// RandSource seeds the insight sampler. Seed 0 draws from the clock.
func RandSource(seed uint64) stock_health.RandSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return stock_health.NewRandSource(seed)
}

// LoadTable builds the configured dataset source, reads it once and releases
// any connection it held.
func LoadTable(ctx context.Context, cfg *config.Config) (*domain.Table, error) {
	src, closer, err := dataset.FromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("failed to close dataset source")
		}
	}()

	return dataset.Load(ctx, src)
}
