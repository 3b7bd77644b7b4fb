package stock_health

import (
	"fmt"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
)

// Pipeline turns an inventory table into the overview and explorer payloads.
// It holds no table state; every call recomputes from the table it is given.
type Pipeline struct {
	config Config
	rules  *RuleSet
}

// NewPipeline creates a new stock health pipeline instance.
func NewPipeline(cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		config: cfg,
		rules:  NewRuleSet(cfg),
	}
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Rules exposes the rule set the pipeline filters with.
func (p *Pipeline) Rules() *RuleSet {
	return p.rules
}

// Overview computes the KPI tiles, charts, insight lines and table projection.
func (p *Pipeline) Overview(t *domain.Table, today time.Time, rnd RandSource) *domain.OverviewDashboard {
	lowDOI := p.rules.LowDOI(t)
	overstock := p.rules.Overstock(t)
	expiring := p.rules.ExpiringSoon(t, today, p.config.OverviewExpiryDays)
	highCostLowSales := p.rules.HighCostLowSales(t)

	topBuyer, hasTopBuyer := TopGroupBySum(overstock, domain.KeyBuyer, domain.ColOverstockInventoryValue)

	insights := ComposeInsights(InsightInput{
		LowStockCount:     lowDOI.Len(),
		TopOverstockBuyer: topBuyer,
		HasOverstockBuyer: hasTopBuyer,
		HighCostLowSales:  ProductNames(Sample(highCostLowSales, p.config.SampleSize, rnd)),
		ExpiringSoon:      ProductNames(Sample(expiring, p.config.SampleSize, rnd)),
		ExpiryHorizonDays: p.config.OverviewExpiryDays,
	})

	totalOverstock := Sum(t, domain.ColOverstockInventoryValue)
	totalInventory := Sum(t, domain.ColTotalInventoryCost)

	return &domain.OverviewDashboard{
		AsOf: CalendarDate(today).Format(domain.DateLayout),
		KPIs: domain.OverviewKPIs{
			TotalProducts:         t.Len(),
			LowStockCount:         lowDOI.Len(),
			TotalOverstockValue:   totalOverstock,
			TotalInventoryValue:   totalInventory,
			TotalOverstockDisplay: FormatCurrency(totalOverstock),
			TotalInventoryDisplay: FormatCurrency(totalInventory),
		},
		Insights:     insights,
		DOIHistogram: DOIHistogram(t, p.config.HistogramMaxBins),
		TopOverstock: ProductValues(TopN(t, domain.ColOverstockInventoryValue, p.config.TopN), domain.ColOverstockInventoryValue),
		Table:        t.Project(),
	}
}

// Explorer applies the equality filters and computes the explorer charts over
// the filtered rows only.
func (p *Pipeline) Explorer(t *domain.Table, filter domain.ExplorerFilter, today time.Time) *domain.ExplorerDashboard {
	filter = filter.Normalize()
	filtered := t.Filter(filter.Matches)

	scatter := make([]domain.ScatterPoint, 0, filtered.Len())
	filtered.Each(func(_ int, row domain.Product) {
		scatter = append(scatter, domain.ScatterPoint{
			Product:       row.Product,
			Category:      row.Category,
			Buyer:         row.Buyer,
			DOI:           row.DOI,
			Revenue:       row.DollarsSold12Mo,
			InventoryCost: row.TotalInventoryCost,
			StockQty:      row.StockQty,
		})
	})

	expiring := CountByDate(p.rules.ExpiringSoon(filtered, today, p.config.ExplorerExpiryDays))
	var notice string
	if len(expiring) == 0 {
		notice = fmt.Sprintf("No products expiring in the next %d days.", p.config.ExplorerExpiryDays)
	}

	return &domain.ExplorerDashboard{
		AsOf:                     CalendarDate(today).Format(domain.DateLayout),
		Filter:                   filter,
		Products:                 filtered.Project(),
		Scatter:                  scatter,
		AvgDOIByBuyer:            MeanBy(filtered, domain.KeyBuyer, domain.ColDOI),
		InventoryValueByCategory: SumBy(filtered, domain.KeyCategory, domain.ColTotalInventoryCost),
		TopRevenue:               ProductValues(TopN(filtered, domain.ColDollarsSold12Mo, p.config.TopN), domain.ColDollarsSold12Mo),
		ExpiringSoon:             expiring,
		ExpiringNotice:           notice,
	}
}

// FilterOptions lists the explorer choices, each led by "All".
func (p *Pipeline) FilterOptions(t *domain.Table) domain.FilterOptions {
	withAll := func(values []string) []string {
		return append([]string{domain.AllOption}, values...)
	}
	return domain.FilterOptions{
		Warehouses: withAll(Distinct(t, domain.KeyWarehouse)),
		Buyers:     withAll(Distinct(t, domain.KeyBuyer)),
		Categories: withAll(Distinct(t, domain.KeyCategory)),
	}
}
