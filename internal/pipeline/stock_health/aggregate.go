package stock_health

import (
	"sort"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// groupTotals holds per-key sums and counts with keys in first-appearance order.
type groupTotals struct {
	order  []string
	sums   map[string]decimal.Decimal
	counts map[string]int
}

func groupBy(t *domain.Table, key domain.KeyColumn, col domain.NumericColumn) groupTotals {
	g := groupTotals{
		sums:   make(map[string]decimal.Decimal),
		counts: make(map[string]int),
	}
	t.Each(func(_ int, p domain.Product) {
		k := key.Key(p)
		if _, seen := g.counts[k]; !seen {
			g.order = append(g.order, k)
			g.sums[k] = decimal.Zero
		}
		g.sums[k] = g.sums[k].Add(col.Value(p))
		g.counts[k]++
	})
	return g
}

// Sum adds up col over every row.
func Sum(t *domain.Table, col domain.NumericColumn) decimal.Decimal {
	total := decimal.Zero
	t.Each(func(_ int, p domain.Product) {
		total = total.Add(col.Value(p))
	})
	return total
}

// TopGroupBySum groups t by key, sums col per group and returns the largest
// group. ok is false only when t is empty. Ties go to the smallest key.
func TopGroupBySum(t *domain.Table, key domain.KeyColumn, col domain.NumericColumn) (top domain.GroupValue, ok bool) {
	if t.Empty() {
		return domain.GroupValue{}, false
	}

	g := groupBy(t, key, col)
	keys := append([]string(nil), g.order...)
	sort.Strings(keys)

	for _, k := range keys {
		if !ok || g.sums[k].GreaterThan(top.Value) {
			top = domain.GroupValue{Key: k, Value: g.sums[k]}
			ok = true
		}
	}
	return top, ok
}

// SumBy returns the per-group sum of col, largest first.
func SumBy(t *domain.Table, key domain.KeyColumn, col domain.NumericColumn) []domain.GroupValue {
	g := groupBy(t, key, col)
	out := make([]domain.GroupValue, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, domain.GroupValue{Key: k, Value: g.sums[k]})
	}
	sortGroupsDesc(out)
	return out
}

// MeanBy returns the per-group mean of col, largest first.
func MeanBy(t *domain.Table, key domain.KeyColumn, col domain.NumericColumn) []domain.GroupValue {
	g := groupBy(t, key, col)
	out := make([]domain.GroupValue, 0, len(g.order))
	for _, k := range g.order {
		mean := g.sums[k].Div(decimal.NewFromInt(int64(g.counts[k])))
		out = append(out, domain.GroupValue{Key: k, Value: mean})
	}
	sortGroupsDesc(out)
	return out
}

// CountBy returns the number of rows per group, largest first.
func CountBy(t *domain.Table, key domain.KeyColumn) []domain.GroupValue {
	g := groupBy(t, key, domain.ColStockQty)
	out := make([]domain.GroupValue, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, domain.GroupValue{Key: k, Value: decimal.NewFromInt(int64(g.counts[k]))})
	}
	sortGroupsDesc(out)
	return out
}

func sortGroupsDesc(groups []domain.GroupValue) {
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Value.Cmp(groups[j].Value); c != 0 {
			return c > 0
		}
		return groups[i].Key < groups[j].Key
	})
}

// TopN returns the n rows with the largest col, keeping table order among ties.
func TopN(t *domain.Table, col domain.NumericColumn, n int) *domain.Table {
	rows := t.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		return col.Value(rows[i]).GreaterThan(col.Value(rows[j]))
	})
	if n < 0 {
		n = 0
	}
	if n < len(rows) {
		rows = rows[:n]
	}
	return domain.NewTable(rows)
}

// Distinct lists the values of key in first-appearance order.
func Distinct(t *domain.Table, key domain.KeyColumn) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	t.Each(func(_ int, p domain.Product) {
		k := key.Key(p)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	})
	return out
}

// ProductValues pairs each row's product name with col, in table order.
func ProductValues(t *domain.Table, col domain.NumericColumn) []domain.ProductValue {
	out := make([]domain.ProductValue, 0, t.Len())
	t.Each(func(_ int, p domain.Product) {
		out = append(out, domain.ProductValue{Product: p.Product, Value: col.Value(p)})
	})
	return out
}
