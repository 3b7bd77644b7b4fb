package domain

import (
	"github.com/shopspring/decimal"
)

// NumericColumn names a numeric column by its source header.
type NumericColumn string

const (
	ColStockQty                NumericColumn = "StockQty"
	ColAvgLandedCost           NumericColumn = "AvgLandedCost"
	ColTotalInventoryCost      NumericColumn = "TotalInventoryCost"
	ColLast12MoQtySold         NumericColumn = "Last12MoQtySold"
	ColDOI                     NumericColumn = "DOI"
	ColOverstockInventoryValue NumericColumn = "OverstockInventoryValue"
	ColDollarsSold12Mo         NumericColumn = "12MoDollarsSold"
)

// Value reads the column from p. Unknown columns read as zero.
func (c NumericColumn) Value(p Product) decimal.Decimal {
	switch c {
	case ColStockQty:
		return decimal.NewFromInt(p.StockQty)
	case ColAvgLandedCost:
		return p.AvgLandedCost
	case ColTotalInventoryCost:
		return p.TotalInventoryCost
	case ColLast12MoQtySold:
		return decimal.NewFromInt(p.Last12MoQtySold)
	case ColDOI:
		return decimalFromFloat(p.DOI)
	case ColOverstockInventoryValue:
		return p.OverstockInventoryValue
	case ColDollarsSold12Mo:
		return p.DollarsSold12Mo
	default:
		return decimal.Zero
	}
}

// Valid reports whether c names a known numeric column.
func (c NumericColumn) Valid() bool {
	switch c {
	case ColStockQty, ColAvgLandedCost, ColTotalInventoryCost, ColLast12MoQtySold,
		ColDOI, ColOverstockInventoryValue, ColDollarsSold12Mo:
		return true
	default:
		return false
	}
}

// KeyColumn names a categorical column usable as a grouping key.
type KeyColumn string

const (
	KeyProduct   KeyColumn = "Product"
	KeyWarehouse KeyColumn = "Warehouse"
	KeyBuyer     KeyColumn = "Buyer"
	KeyCategory  KeyColumn = "Category"
)

// Key reads the column from p. Unknown columns read as "".
func (k KeyColumn) Key(p Product) string {
	switch k {
	case KeyProduct:
		return p.Product
	case KeyWarehouse:
		return p.Warehouse
	case KeyBuyer:
		return p.Buyer
	case KeyCategory:
		return p.Category
	default:
		return ""
	}
}
