package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/pipeline/stock_health"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func writeOverview(w io.Writer, d *domain.OverviewDashboard) error {
	fmt.Fprintf(w, "Inventory overview as of %s\n\n", d.AsOf)

	tw := newTable(w)
	fmt.Fprintf(tw, "Total products\t%d\n", d.KPIs.TotalProducts)
	fmt.Fprintf(tw, "Low stock (DOI < 10)\t%d\n", d.KPIs.LowStockCount)
	fmt.Fprintf(tw, "Total overstock value\t%s\n", d.KPIs.TotalOverstockDisplay)
	fmt.Fprintf(tw, "Total inventory value\t%s\n", d.KPIs.TotalInventoryDisplay)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nInsights")
	if len(d.Insights) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, line := range d.Insights {
		fmt.Fprintf(w, "  - %s\n", line)
	}

	fmt.Fprintln(w, "\nDOI distribution")
	tw = newTable(w)
	for _, bin := range d.DOIHistogram {
		fmt.Fprintf(tw, "  %g - %g\t%d\n", bin.Start, bin.End, bin.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTop overstock products")
	return writeProductValues(w, d.TopOverstock)
}

func writeProductValues(w io.Writer, values []domain.ProductValue) error {
	tw := newTable(w)
	for _, v := range values {
		fmt.Fprintf(tw, "  %s\t%s\n", v.Product, stock_health.FormatCurrency(v.Value))
	}
	return tw.Flush()
}

func writeGroups(w io.Writer, title string, groups []domain.GroupValue, format func(domain.GroupValue) string) error {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := newTable(w)
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%s\n", g.Key, format(g))
	}
	return tw.Flush()
}

func describeFilter(f domain.ExplorerFilter) string {
	value := func(v string) string {
		if v == "" {
			return domain.AllOption
		}
		return v
	}
	return fmt.Sprintf("warehouse=%s buyer=%s category=%s", value(f.Warehouse), value(f.Buyer), value(f.Category))
}

func writeExplorer(w io.Writer, d *domain.ExplorerDashboard) error {
	fmt.Fprintf(w, "Inventory explorer as of %s (%s)\n\n", d.AsOf, describeFilter(d.Filter))

	tw := newTable(w)
	fmt.Fprintln(tw, "Product\tWarehouse\tBuyer\tCategory\tDOI\tStatus\tExpiry")
	for _, row := range d.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\t%s\n",
			row.Product, row.Warehouse, row.Buyer, row.Category, row.DOI, row.DOIStatus, row.ExpiryDate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writeGroups(w, "Average DOI by buyer", d.AvgDOIByBuyer, func(g domain.GroupValue) string {
		return g.Value.StringFixed(1)
	}); err != nil {
		return err
	}
	if err := writeGroups(w, "Inventory value by category", d.InventoryValueByCategory, func(g domain.GroupValue) string {
		return stock_health.FormatCurrency(g.Value)
	}); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTop products by 12-month revenue")
	if err := writeProductValues(w, d.TopRevenue); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nExpiring soon")
	if d.ExpiringNotice != "" {
		fmt.Fprintf(w, "  %s\n", d.ExpiringNotice)
		return nil
	}
	tw = newTable(w)
	for _, dc := range d.ExpiringSoon {
		fmt.Fprintf(tw, "  %s\t%d\n", dc.Date, dc.Count)
	}
	return tw.Flush()
}

func writeFilterOptions(w io.Writer, opts domain.FilterOptions) error {
	fmt.Fprintf(w, "Warehouses: %s\n", strings.Join(opts.Warehouses, ", "))
	fmt.Fprintf(w, "Buyers: %s\n", strings.Join(opts.Buyers, ", "))
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(opts.Categories, ", "))
	return nil
}
