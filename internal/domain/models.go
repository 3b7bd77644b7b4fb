// backend-go/internal/domain/models.go
package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used on every external surface.
const DateLayout = "2006-01-02"

// Product is one row of the inventory dataset.
type Product struct {
	Product                 string          `json:"product" db:"product"`
	Warehouse               string          `json:"warehouse" db:"warehouse"`
	Buyer                   string          `json:"buyer" db:"buyer"`
	Category                string          `json:"category" db:"category"`
	StockQty                int64           `json:"stock_qty" db:"stock_qty"`
	AvgLandedCost           decimal.Decimal `json:"avg_landed_cost" db:"avg_landed_cost"`
	TotalInventoryCost      decimal.Decimal `json:"total_inventory_cost" db:"total_inventory_cost"`
	Last12MoQtySold         int64           `json:"last_12mo_qty_sold" db:"last_12mo_qty_sold"`
	DOI                     float64         `json:"doi" db:"doi"`
	OverstockInventoryValue decimal.Decimal `json:"overstock_inventory_value" db:"overstock_inventory_value"`
	ExpiryDate              time.Time       `json:"expiry_date" db:"expiry_date"`
	DollarsSold12Mo         decimal.Decimal `json:"dollars_sold_12mo" db:"dollars_sold_12mo"`
}

// Status is derived from DOI on every call, so it can never drift from it.
func (p Product) Status() DOIStatus {
	return ClassifyDOI(p.DOI)
}

// ProductRow is the table projection handed to the presentation layer,
// with the derived status column appended.
type ProductRow struct {
	Product                 string          `json:"product"`
	Warehouse               string          `json:"warehouse"`
	Buyer                   string          `json:"buyer"`
	Category                string          `json:"category"`
	StockQty                int64           `json:"stock_qty"`
	AvgLandedCost           decimal.Decimal `json:"avg_landed_cost"`
	TotalInventoryCost      decimal.Decimal `json:"total_inventory_cost"`
	Last12MoQtySold         int64           `json:"last_12mo_qty_sold"`
	DOI                     float64         `json:"doi"`
	DOIStatus               DOIStatus       `json:"doi_status"`
	OverstockInventoryValue decimal.Decimal `json:"overstock_inventory_value"`
	ExpiryDate              string          `json:"expiry_date"`
	DollarsSold12Mo         decimal.Decimal `json:"dollars_sold_12mo"`
}

// Row projects p into a ProductRow.
func (p Product) Row() ProductRow {
	return ProductRow{
		Product:                 p.Product,
		Warehouse:               p.Warehouse,
		Buyer:                   p.Buyer,
		Category:                p.Category,
		StockQty:                p.StockQty,
		AvgLandedCost:           p.AvgLandedCost,
		TotalInventoryCost:      p.TotalInventoryCost,
		Last12MoQtySold:         p.Last12MoQtySold,
		DOI:                     p.DOI,
		DOIStatus:               p.Status(),
		OverstockInventoryValue: p.OverstockInventoryValue,
		ExpiryDate:              p.ExpiryDate.Format(DateLayout),
		DollarsSold12Mo:         p.DollarsSold12Mo,
	}
}

// Table is an immutable, ordered collection of products. Filtering returns
// a new Table; the receiver is never modified.
type Table struct {
	rows []Product
}

// NewTable copies products into a new Table.
func NewTable(products []Product) *Table {
	rows := make([]Product, len(products))
	copy(rows, products)
	return &Table{rows: rows}
}

// Len returns the number of rows. A nil Table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Product {
	if t == nil {
		return nil
	}
	out := make([]Product, len(t.rows))
	copy(out, t.rows)
	return out
}

// Each calls fn for every row in order.
func (t *Table) Each(fn func(i int, p Product)) {
	if t == nil {
		return
	}
	for i, p := range t.rows {
		fn(i, p)
	}
}

// Filter returns the rows matching pred, preserving order.
func (t *Table) Filter(pred func(Product) bool) *Table {
	out := &Table{rows: make([]Product, 0)}
	t.Each(func(_ int, p Product) {
		if pred(p) {
			out.rows = append(out.rows, p)
		}
	})
	return out
}

// Project returns every row with its derived status column.
func (t *Table) Project() []ProductRow {
	out := make([]ProductRow, 0, t.Len())
	t.Each(func(_ int, p Product) {
		out = append(out, p.Row())
	})
	return out
}

// Fingerprint hashes the table contents. Equal tables yield equal fingerprints.
func (t *Table) Fingerprint() string {
	h := sha1.New()
	t.Each(func(_ int, p Product) {
		fmt.Fprintf(h, "%s|%s|%s|%s|%d|%s|%s|%d|%s|%s|%s|%s\n",
			p.Product, p.Warehouse, p.Buyer, p.Category,
			p.StockQty, p.AvgLandedCost.String(), p.TotalInventoryCost.String(),
			p.Last12MoQtySold, decimalFromFloat(p.DOI).String(),
			p.OverstockInventoryValue.String(), p.ExpiryDate.Format(DateLayout),
			p.DollarsSold12Mo.String())
	})
	return hex.EncodeToString(h.Sum(nil))
}

// decimalFromFloat converts v, mapping NaN and infinities to zero since
// decimal cannot represent them.
func decimalFromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
