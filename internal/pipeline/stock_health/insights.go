package stock_health

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
)

// InsightInput carries the scalars and samples the insight lines are built from.
type InsightInput struct {
	LowStockCount     int
	TopOverstockBuyer domain.GroupValue
	HasOverstockBuyer bool
	HighCostLowSales  []string // sampled product names
	ExpiringSoon      []string // sampled product names
	ExpiryHorizonDays int
}

type insightRule struct {
	name    string
	applies func(InsightInput) bool
	format  func(InsightInput) string
}

// insightRules are evaluated top to bottom; the order is the display order.
var insightRules = []insightRule{
	{
		name:    "low_stock",
		applies: func(in InsightInput) bool { return in.LowStockCount > 0 },
		format: func(in InsightInput) string {
			return fmt.Sprintf("%d products are critically low on inventory (DOI < %g).",
				in.LowStockCount, domain.LowDOIThreshold)
		},
	},
	{
		name:    "top_overstock_buyer",
		applies: func(in InsightInput) bool { return in.HasOverstockBuyer },
		format: func(in InsightInput) string {
			return fmt.Sprintf("Buyer %s is carrying %s in overstocked items.",
				in.TopOverstockBuyer.Key, FormatCurrency(in.TopOverstockBuyer.Value))
		},
	},
	{
		name:    "high_cost_low_sales",
		applies: func(in InsightInput) bool { return len(in.HighCostLowSales) > 0 },
		format: func(in InsightInput) string {
			return fmt.Sprintf("High holding cost with low movement detected in SKUs: %s.",
				strings.Join(in.HighCostLowSales, ", "))
		},
	},
	{
		name:    "expiring_soon",
		applies: func(in InsightInput) bool { return len(in.ExpiringSoon) > 0 },
		format: func(in InsightInput) string {
			return fmt.Sprintf("Expiring soon: %s within %d days.",
				strings.Join(in.ExpiringSoon, ", "), in.ExpiryHorizonDays)
		},
	},
}

// ComposeInsights renders one line per applicable rule, in rule order.
func ComposeInsights(in InsightInput) []string {
	lines := make([]string, 0, len(insightRules))
	for _, rule := range insightRules {
		if rule.applies(in) {
			lines = append(lines, rule.format(in))
		}
	}
	return lines
}
