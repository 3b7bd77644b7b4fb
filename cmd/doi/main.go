package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/app"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/pipeline/stock_health"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/service"
	"github.com/andresuchdata/doi-dashboard/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type serviceKey struct{}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Usage:   "Dataset source: file, s3, drive or postgres",
			EnvVars: []string{"DATASET_SOURCE"},
		},
		&cli.StringFlag{
			Name:    "path",
			Usage:   "Path to a CSV or XLSX dataset (file source)",
			EnvVars: []string{"DATASET_PATH"},
		},
		&cli.StringFlag{
			Name:    "s3-key",
			Usage:   "Object key, or prefix ending in / to pick the latest object (s3 source)",
			EnvVars: []string{"S3_KEY"},
		},
		&cli.StringFlag{
			Name:    "drive-file-id",
			Usage:   "Google Drive file id (drive source)",
			EnvVars: []string{"DRIVE_FILE_ID"},
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "Seed for the insight sampler; 0 seeds from the clock",
			EnvVars: []string{"INSIGHT_RANDOM_SEED"},
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text or json",
			Value: "text",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level",
			Value:   "warn",
			EnvVars: []string{"LOG_LEVEL"},
		},
	}
}

func asOfFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "as-of",
		Usage: "Calendar date (YYYY-MM-DD) used as today; defaults to the current date",
	}
}

// applyFlags overrides the environment configuration with explicit flags.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("source"); v != "" {
		cfg.Dataset.Source = config.SourceKind(v)
	}
	if v := c.String("path"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := c.String("s3-key"); v != "" {
		cfg.Dataset.S3Key = v
	}
	if v := c.String("drive-file-id"); v != "" {
		cfg.Dataset.DriveFileID = v
	}
	if c.IsSet("seed") {
		cfg.Insights.RandomSeed = c.Uint64("seed")
	}
}

func loadService(c *cli.Context) error {
	// help needs no dataset
	if first := c.Args().First(); first == "" || first == "help" || first == "h" {
		return nil
	}

	logger.Setup("debug", c.String("log-level"))

	cfg := *config.Load()
	applyFlags(c, &cfg)

	table, err := app.LoadTable(c.Context, &cfg)
	if err != nil {
		return err
	}

	svc := service.NewDashboardService(
		table,
		stock_health.NewPipeline(app.PipelineConfig(cfg.Insights)),
		nil,
		app.RandSource(cfg.Insights.RandomSeed),
	)
	c.Context = context.WithValue(c.Context, serviceKey{}, svc)
	return nil
}

func dashboardService(c *cli.Context) *service.DashboardService {
	return c.Context.Value(serviceKey{}).(*service.DashboardService)
}

func parseAsOf(c *cli.Context) (time.Time, error) {
	raw := c.String("as-of")
	if raw == "" {
		return time.Time{}, nil
	}
	asOf, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
	}
	return asOf, nil
}

func runOverview(c *cli.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}
	overview := dashboardService(c).Overview(c.Context, asOf)
	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, overview)
	}
	return writeOverview(c.App.Writer, overview)
}

func runExplorer(c *cli.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}
	filter := domain.ExplorerFilter{
		Warehouse: c.String("warehouse"),
		Buyer:     c.String("buyer"),
		Category:  c.String("category"),
	}
	explorer := dashboardService(c).Explorer(c.Context, filter, asOf)
	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, explorer)
	}
	return writeExplorer(c.App.Writer, explorer)
}

func runFilters(c *cli.Context) error {
	opts := dashboardService(c).FilterOptions(c.Context)
	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, opts)
	}
	return writeFilterOptions(c.App.Writer, opts)
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "doi",
		Usage:  "Render the days-of-inventory dashboard views in the terminal",
		Flags:  sourceFlags(),
		Before: loadService,
		Commands: []*cli.Command{
			{
				Name:   "overview",
				Usage:  "KPIs, insights, DOI histogram and top overstock products",
				Flags:  []cli.Flag{asOfFlag()},
				Action: runOverview,
			},
			{
				Name:  "explorer",
				Usage: "Filtered products and explorer chart datasets",
				Flags: []cli.Flag{
					asOfFlag(),
					&cli.StringFlag{Name: "warehouse", Usage: "Warehouse filter (All for every warehouse)"},
					&cli.StringFlag{Name: "buyer", Usage: "Buyer filter (All for every buyer)"},
					&cli.StringFlag{Name: "category", Usage: "Category filter (All for every category)"},
				},
				Action: runExplorer,
			},
			{
				Name:   "filters",
				Usage:  "List the explorer filter choices",
				Action: runFilters,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
