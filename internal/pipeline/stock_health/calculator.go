package stock_health

import (
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
)

// RuleSet extracts the rule-based subsets the insights and charts are built from.
type RuleSet struct {
	cfg Config
}

// NewRuleSet creates a rule set; zero-valued config fields take their defaults.
func NewRuleSet(cfg Config) *RuleSet {
	return &RuleSet{cfg: cfg.withDefaults()}
}

// LowDOI keeps products with DOI below the Low threshold.
func (r *RuleSet) LowDOI(t *domain.Table) *domain.Table {
	return t.Filter(func(p domain.Product) bool {
		return p.DOI < domain.LowDOIThreshold
	})
}

// Overstock keeps products carrying any overstock value, regardless of DOI.
func (r *RuleSet) Overstock(t *domain.Table) *domain.Table {
	return t.Filter(func(p domain.Product) bool {
		return p.OverstockInventoryValue.IsPositive()
	})
}

// ExpiringSoon keeps products expiring before today plus horizonDays.
// Already-expired products are included.
func (r *RuleSet) ExpiringSoon(t *domain.Table, today time.Time, horizonDays int) *domain.Table {
	cutoff := CalendarDate(today).AddDate(0, 0, horizonDays)
	return t.Filter(func(p domain.Product) bool {
		return p.ExpiryDate.Before(cutoff)
	})
}

// HighCostLowSales keeps products that tie up a lot of money but barely sell.
func (r *RuleSet) HighCostLowSales(t *domain.Table) *domain.Table {
	return t.Filter(func(p domain.Product) bool {
		return p.TotalInventoryCost.GreaterThan(r.cfg.HighCostThreshold) &&
			p.Last12MoQtySold < r.cfg.LowSalesQty
	})
}

// CalendarDate drops the clock part of t, keeping its calendar date in UTC
// so it compares cleanly with parsed expiry dates.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
