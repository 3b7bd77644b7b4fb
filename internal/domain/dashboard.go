package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ViewMode selects one of the two read-only dashboard presentations.
type ViewMode string

const (
	ViewOverview ViewMode = "overview"
	ViewExplorer ViewMode = "explorer"
)

// ParseViewMode returns the view for a given label (case-insensitive).
// An empty label selects the overview.
func ParseViewMode(label string) (ViewMode, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", string(ViewOverview):
		return ViewOverview, true
	case string(ViewExplorer):
		return ViewExplorer, true
	default:
		return "", false
	}
}

// AllOption is the pass-through choice offered in every explorer filter.
const AllOption = "All"

// ExplorerFilter holds the explorer's equality filters. An empty value
// (or "All") passes every row.
type ExplorerFilter struct {
	Warehouse string `json:"warehouse,omitempty"`
	Buyer     string `json:"buyer,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Normalize trims values and turns "All" into the empty pass-through value.
func (f ExplorerFilter) Normalize() ExplorerFilter {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, AllOption) {
			return ""
		}
		return v
	}
	return ExplorerFilter{
		Warehouse: clean(f.Warehouse),
		Buyer:     clean(f.Buyer),
		Category:  clean(f.Category),
	}
}

// Matches reports whether p passes all set filters. Call on a normalized filter.
func (f ExplorerFilter) Matches(p Product) bool {
	if f.Warehouse != "" && p.Warehouse != f.Warehouse {
		return false
	}
	if f.Buyer != "" && p.Buyer != f.Buyer {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// GroupValue is one group of a grouped aggregate.
type GroupValue struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// HistogramBin covers [Start, End); the last bin also includes End.
type HistogramBin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// ProductValue is one bar of a per-product bar chart.
type ProductValue struct {
	Product string          `json:"product"`
	Value   decimal.Decimal `json:"value"`
}

// ScatterPoint carries both the revenue and the inventory-cost y values so one
// dataset feeds both explorer scatter charts.
type ScatterPoint struct {
	Product       string          `json:"product"`
	Category      string          `json:"category"`
	Buyer         string          `json:"buyer"`
	DOI           float64         `json:"doi"`
	Revenue       decimal.Decimal `json:"revenue"`
	InventoryCost decimal.Decimal `json:"inventory_cost"`
	StockQty      int64           `json:"stock_qty"`
}

// DateCount is the number of rows sharing a calendar date.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// OverviewKPIs are the four headline tiles.
type OverviewKPIs struct {
	TotalProducts         int             `json:"total_products"`
	LowStockCount         int             `json:"low_stock_count"`
	TotalOverstockValue   decimal.Decimal `json:"total_overstock_value"`
	TotalInventoryValue   decimal.Decimal `json:"total_inventory_value"`
	TotalOverstockDisplay string          `json:"total_overstock_display"`
	TotalInventoryDisplay string          `json:"total_inventory_display"`
}

// OverviewDashboard aggregates all overview data
type OverviewDashboard struct {
	AsOf         string         `json:"as_of"`
	KPIs         OverviewKPIs   `json:"kpis"`
	Insights     []string       `json:"insights"`
	DOIHistogram []HistogramBin `json:"doi_histogram"`
	TopOverstock []ProductValue `json:"top_overstock"`
	Table        []ProductRow   `json:"table"`
}

// ExplorerDashboard aggregates all explorer data for one filter selection.
type ExplorerDashboard struct {
	AsOf                     string         `json:"as_of"`
	Filter                   ExplorerFilter `json:"filter"`
	Products                 []ProductRow   `json:"products"`
	Scatter                  []ScatterPoint `json:"scatter"`
	AvgDOIByBuyer            []GroupValue   `json:"avg_doi_by_buyer"`
	InventoryValueByCategory []GroupValue   `json:"inventory_value_by_category"`
	TopRevenue               []ProductValue `json:"top_revenue"`
	ExpiringSoon             []DateCount    `json:"expiring_soon"`
	ExpiringNotice           string         `json:"expiring_notice,omitempty"`
}

// Dashboard is the payload for a single view selection; exactly one of
// Overview and Explorer is set.
type Dashboard struct {
	View     ViewMode           `json:"view"`
	Overview *OverviewDashboard `json:"overview,omitempty"`
	Explorer *ExplorerDashboard `json:"explorer,omitempty"`
}

// FilterOptions lists the explorer filter choices, each led by "All".
type FilterOptions struct {
	Warehouses []string `json:"warehouses"`
	Buyers     []string `json:"buyers"`
	Categories []string `json:"categories"`
}
