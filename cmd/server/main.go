// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/api"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/app"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/cache"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/metrics"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/pipeline/stock_health"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/service"
	"github.com/andresuchdata/doi-dashboard/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}

	logger.Log.Info().Msg("Server exiting")
}

func run(ctx context.Context, cfg *config.Config) error {
	// The dataset is read once; a bad file stops start-up.
	table, err := app.LoadTable(ctx, cfg)
	if err != nil {
		return err
	}

	explorerCache, err := cache.NewExplorerCache(ctx, cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Explorer cache unavailable, continuing without cache")
		explorerCache = cache.NewNoopExplorerCache()
	}
	defer explorerCache.Close()

	m := metrics.New(metrics.DefaultPrefix)
	dashboardService := service.NewDashboardService(
		table,
		stock_health.NewPipeline(app.PipelineConfig(cfg.Insights)),
		explorerCache,
		app.RandSource(cfg.Insights.RandomSeed),
		service.WithMetrics(m),
	)

	router := api.NewRouter(&api.Services{
		DashboardService: dashboardService,
		Metrics:          m,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Cache.Enabled {
		g.Go(func() error {
			if _, err := dashboardService.WarmExplorerCache(gctx, cfg.Cache.WarmWorkers); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Warn().Err(err).Msg("Explorer cache warm-up stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Log.Info().Str("port", cfg.Server.Port).Int("rows", table.Len()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info().Msg("Shutting down server...")

		// The context is used to inform the server it has a few seconds to
		// finish the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
