// backend-go/internal/repository/inventory_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultInventoryTable is read when no table name is configured.
const DefaultInventoryTable = "inventory_items"

// InventoryRepository reads inventory snapshots. It never writes.
type InventoryRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type inventoryRepository struct {
	db    *sqlx.DB
	table string
}

// NewInventoryRepository reads from table, or DefaultInventoryTable when empty.
func NewInventoryRepository(db *sqlx.DB, table string) InventoryRepository {
	if strings.TrimSpace(table) == "" {
		table = DefaultInventoryTable
	}
	return &inventoryRepository{db: db, table: table}
}

func (r *inventoryRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, listProductsQuery(r.table)); err != nil {
		return nil, fmt.Errorf("error listing inventory products: %w", err)
	}

	return products, nil
}

func listProductsQuery(table string) string {
	return `
        SELECT
            product, warehouse, buyer, category,
            stock_qty, avg_landed_cost, total_inventory_cost,
            last_12mo_qty_sold, doi, overstock_inventory_value,
            expiry_date, dollars_sold_12mo
        FROM ` + quoteTable(table)
}

// quoteTable quotes each dot-separated part so "schema.table" stays qualified.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(strings.TrimSpace(part))
	}
	return strings.Join(parts, ".")
}
