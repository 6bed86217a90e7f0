package checkout

import (
	"context"

	"github.com/tambeaditya101/next-ecom-api/internal/orders"
)

// ProductRow is the slice of a catalog row the engine cares about.
type ProductRow struct {
	ID         int64
	Name       string
	PriceCents int
	Stock      int
}

type StockLevel struct {
	ProductID int64 `json:"id"`
	Stock     int   `json:"stock"`
}

// Store is the storage contract for the engine.
//
// Snapshot reads current rows for the given ids without taking locks;
// missing ids are omitted, not errors. It is a hint for the pre-check only.
//
// CommitOrder is the atomic unit: create order + items and decrement stock
// for every line, all-or-nothing. Each decrement must be conditional on the
// stock still covering the line at write time, evaluated by the storage
// engine in the same step as the write. On success it returns the order
// with items and post-commit stock per touched product.
type Store interface {
	Snapshot(ctx context.Context, productIDs []int64) (map[int64]ProductRow, error)
	CommitOrder(ctx context.Context, userID int64, lines []Line) (*orders.Order, []StockLevel, error)
}
