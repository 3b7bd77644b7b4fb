package stock_health

import (
	"reflect"
	"strings"
	"testing"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

func TestOverviewClassifiesAndCounts(t *testing.T) {
	table := domain.NewTable([]domain.Product{product("a", 5), product("b", 50), product("c", 200)})

	got := NewPipeline(DefaultConfig()).Overview(table, testToday, firstRand{})

	statuses := make([]domain.DOIStatus, 0, len(got.Table))
	for _, row := range got.Table {
		statuses = append(statuses, row.DOIStatus)
	}
	want := []domain.DOIStatus{domain.StatusLow, domain.StatusNormal, domain.StatusOverstock}
	if !reflect.DeepEqual(statuses, want) {
		t.Fatalf("expected statuses %v, got %v", want, statuses)
	}

	if got.KPIs.TotalProducts != 3 {
		t.Errorf("expected 3 products, got %d", got.KPIs.TotalProducts)
	}
	if got.KPIs.LowStockCount != 1 {
		t.Errorf("expected low stock count 1, got %d", got.KPIs.LowStockCount)
	}
	if got.AsOf != "2024-06-01" {
		t.Errorf("expected as_of 2024-06-01, got %s", got.AsOf)
	}
}

func TestOverviewOmitsOverstockLineWhenNoOverstock(t *testing.T) {
	table := domain.NewTable([]domain.Product{product("a", 5), product("b", 50)})

	got := NewPipeline(DefaultConfig()).Overview(table, testToday, firstRand{})

	want := []string{"1 products are critically low on inventory (DOI < 10)."}
	if !reflect.DeepEqual(got.Insights, want) {
		t.Fatalf("expected %q, got %q", want, got.Insights)
	}
	for _, line := range got.Insights {
		if strings.HasPrefix(line, "Buyer ") {
			t.Fatalf("unexpected overstock line %q", line)
		}
	}
}

func TestOverviewFullDashboard(t *testing.T) {
	got := NewPipeline(DefaultConfig()).Overview(sampleTable(), testToday, firstRand{})

	wantInsights := []string{
		"1 products are critically low on inventory (DOI < 10).",
		"Buyer Bob is carrying $1,500 in overstocked items.",
		"High holding cost with low movement detected in SKUs: SKU-B.",
		"Expiring soon: SKU-A within 30 days.",
	}
	if !reflect.DeepEqual(got.Insights, wantInsights) {
		t.Fatalf("expected %q, got %q", wantInsights, got.Insights)
	}

	if !got.KPIs.TotalOverstockValue.Equal(dec(2200)) || got.KPIs.TotalOverstockDisplay != "$2,200" {
		t.Errorf("unexpected overstock KPI %s (%s)", got.KPIs.TotalOverstockValue, got.KPIs.TotalOverstockDisplay)
	}
	if !got.KPIs.TotalInventoryValue.Equal(dec(12000)) || got.KPIs.TotalInventoryDisplay != "$12,000" {
		t.Errorf("unexpected inventory KPI %s (%s)", got.KPIs.TotalInventoryValue, got.KPIs.TotalInventoryDisplay)
	}

	if len(got.TopOverstock) != 4 || got.TopOverstock[0].Product != "SKU-C" || got.TopOverstock[1].Product != "SKU-D" {
		t.Errorf("unexpected top overstock order %+v", got.TopOverstock)
	}
	if len(got.Table) != 4 {
		t.Errorf("expected the full table projection, got %d rows", len(got.Table))
	}
}

func TestExplorerWarehouseFilterMatchesPreFilteredTable(t *testing.T) {
	pipeline := NewPipeline(DefaultConfig())
	table := sampleTable()

	filtered := pipeline.Explorer(table, domain.ExplorerFilter{Warehouse: "W1"}, testToday)
	preFiltered := pipeline.Explorer(
		table.Filter(func(p domain.Product) bool { return p.Warehouse == "W1" }),
		domain.ExplorerFilter{},
		testToday,
	)

	for _, row := range filtered.Products {
		if row.Warehouse != "W1" {
			t.Fatalf("unexpected warehouse %s in filtered rows", row.Warehouse)
		}
	}
	for _, point := range filtered.Scatter {
		if point.Product != "SKU-A" && point.Product != "SKU-C" {
			t.Fatalf("unexpected product %s in scatter", point.Product)
		}
	}

	filtered.Filter = domain.ExplorerFilter{}
	if !reflect.DeepEqual(filtered, preFiltered) {
		t.Fatalf("expected filtered explorer to equal explorer over pre-filtered table\n got: %+v\nwant: %+v", filtered, preFiltered)
	}
}

func TestExplorerAllFilterPassesThrough(t *testing.T) {
	pipeline := NewPipeline(DefaultConfig())
	table := sampleTable()

	all := pipeline.Explorer(table, domain.ExplorerFilter{Warehouse: "All", Buyer: " all ", Category: ""}, testToday)
	if len(all.Products) != table.Len() {
		t.Fatalf("expected %d rows, got %d", table.Len(), len(all.Products))
	}
	if all.Filter != (domain.ExplorerFilter{}) {
		t.Errorf("expected normalized empty filter, got %+v", all.Filter)
	}
}

func TestExplorerCharts(t *testing.T) {
	got := NewPipeline(DefaultConfig()).Explorer(sampleTable(), domain.ExplorerFilter{Buyer: "Bob"}, testToday)

	if len(got.AvgDOIByBuyer) != 1 || got.AvgDOIByBuyer[0].Key != "Bob" || !got.AvgDOIByBuyer[0].Value.Equal(dec(125)) {
		t.Errorf("unexpected avg DOI by buyer %+v", got.AvgDOIByBuyer)
	}

	wantCategories := []domain.GroupValue{{Key: "Drinks", Value: dec(6000)}, {Key: "Snacks", Value: dec(4000)}}
	if len(got.InventoryValueByCategory) != 2 {
		t.Fatalf("unexpected categories %+v", got.InventoryValueByCategory)
	}
	for i, want := range wantCategories {
		if g := got.InventoryValueByCategory[i]; g.Key != want.Key || !g.Value.Equal(want.Value) {
			t.Errorf("category %d: expected %+v, got %+v", i, want, g)
		}
	}

	if len(got.TopRevenue) != 2 || got.TopRevenue[0].Product != "SKU-B" {
		t.Errorf("unexpected top revenue %+v", got.TopRevenue)
	}

	wantExpiring := []domain.DateCount{{Date: testToday.AddDate(0, 0, 60).Format(domain.DateLayout), Count: 1}}
	if !reflect.DeepEqual(got.ExpiringSoon, wantExpiring) {
		t.Errorf("expected %v, got %v", wantExpiring, got.ExpiringSoon)
	}
	if got.ExpiringNotice != "" {
		t.Errorf("expected no notice, got %q", got.ExpiringNotice)
	}
}

func TestExplorerEmptySelection(t *testing.T) {
	got := NewPipeline(DefaultConfig()).Explorer(sampleTable(), domain.ExplorerFilter{Warehouse: "nowhere"}, testToday)

	if len(got.Products) != 0 || len(got.Scatter) != 0 || len(got.AvgDOIByBuyer) != 0 ||
		len(got.InventoryValueByCategory) != 0 || len(got.TopRevenue) != 0 || len(got.ExpiringSoon) != 0 {
		t.Fatalf("expected every dataset to be empty, got %+v", got)
	}
	if got.ExpiringNotice != "No products expiring in the next 90 days." {
		t.Errorf("unexpected notice %q", got.ExpiringNotice)
	}
}

func TestFilterOptions(t *testing.T) {
	got := NewPipeline(DefaultConfig()).FilterOptions(sampleTable())
	want := domain.FilterOptions{
		Warehouses: []string{"All", "W1", "W2"},
		Buyers:     []string{"All", "Alice", "Bob"},
		Categories: []string{"All", "Snacks", "Drinks"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNewPipelineFillsDefaults(t *testing.T) {
	cfg := NewPipeline(Config{SampleSize: 5}).Config()
	if cfg.SampleSize != 5 {
		t.Errorf("expected explicit sample size to survive, got %d", cfg.SampleSize)
	}
	if cfg.OverviewExpiryDays != 30 || cfg.ExplorerExpiryDays != 90 || cfg.TopN != 10 {
		t.Errorf("expected defaults to be filled, got %+v", cfg)
	}
	if !cfg.HighCostThreshold.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected default high cost threshold, got %s", cfg.HighCostThreshold)
	}
}
