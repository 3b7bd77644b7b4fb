package stock_health

import "github.com/shopspring/decimal"

// Config holds the rule thresholds and per-view parameters for the stock health pipeline.
type Config struct {
	HighCostThreshold  decimal.Decimal // TotalInventoryCost must exceed this
	LowSalesQty        int64           // Last12MoQtySold must be below this
	OverviewExpiryDays int             // Expiring-soon horizon on the overview
	ExplorerExpiryDays int             // Expiring-soon horizon on the explorer
	SampleSize         int             // Example products per insight line
	TopN               int             // Rows in top-N bar charts
	HistogramMaxBins   int             // Upper bound on DOI histogram bins
}

// DefaultConfig returns the thresholds the dashboard ships with.
func DefaultConfig() Config {
	return Config{
		HighCostThreshold:  decimal.NewFromInt(5000),
		LowSalesQty:        50,
		OverviewExpiryDays: 30,
		ExplorerExpiryDays: 90,
		SampleSize:         2,
		TopN:               10,
		HistogramMaxBins:   30,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HighCostThreshold.IsZero() {
		c.HighCostThreshold = d.HighCostThreshold
	}
	if c.LowSalesQty <= 0 {
		c.LowSalesQty = d.LowSalesQty
	}
	if c.OverviewExpiryDays <= 0 {
		c.OverviewExpiryDays = d.OverviewExpiryDays
	}
	if c.ExplorerExpiryDays <= 0 {
		c.ExplorerExpiryDays = d.ExplorerExpiryDays
	}
	if c.SampleSize <= 0 {
		c.SampleSize = d.SampleSize
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.HistogramMaxBins <= 0 {
		c.HistogramMaxBins = d.HistogramMaxBins
	}
	return c
}
