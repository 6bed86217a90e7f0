package checkout

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tambeaditya101/next-ecom-api/internal/orders"
)

// Repo is the Postgres Store.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

func (r *Repo) Snapshot(ctx context.Context, productIDs []int64) (map[int64]ProductRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price_cents, stock FROM products WHERE id = ANY($1)`, productIDs)
	if err != nil {
		return nil, &PersistenceError{Op: "snapshot", Err: err}
	}
	defer rows.Close()

	out := make(map[int64]ProductRow, len(productIDs))
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock); err != nil {
			return nil, &PersistenceError{Op: "snapshot", Err: err}
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "snapshot", Err: err}
	}
	return out, nil
}

// CommitOrder creates the order, its items and the stock decrements in one
// transaction. Prices are re-read here so the total reflects the catalog at
// commit time, never the snapshot and never the client. Each decrement is a
// single conditional UPDATE; the stock check and the write are one statement,
// so two racing checkouts cannot both pass on the same units. Any line that
// decrements zero rows aborts the whole transaction.
func (r *Repo) CommitOrder(ctx context.Context, userID int64, lines []Line) (*orders.Order, []StockLevel, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, &PersistenceError{Op: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := distinctIDs(lines)
	priced, err := readRows(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}

	total := 0
	for _, l := range lines {
		p, ok := priced[l.ProductID]
		if !ok {
			return nil, nil, &ProductNotFoundError{ProductID: l.ProductID}
		}
		total += p.PriceCents * l.Qty
	}

	o := orders.Order{UserID: userID, Status: orders.StatusPaid, TotalCents: total}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(user_id, status, total_cents)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, string(o.Status), total).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "insert order", Err: err}
	}

	for _, l := range lines {
		p := priced[l.ProductID]
		it := orders.OrderItem{OrderID: o.ID, ProductID: l.ProductID, Qty: l.Qty, PriceCents: p.PriceCents}
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			it.OrderID, it.ProductID, it.Qty, it.PriceCents).Scan(&it.ID)
		if err != nil {
			return nil, nil, &PersistenceError{Op: "insert item", Err: err}
		}
		o.Items = append(o.Items, it)
	}

	for _, l := range lines {
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`, l.ProductID, l.Qty)
		if err != nil {
			return nil, nil, &PersistenceError{Op: "decrement", Err: err}
		}
		if ct.RowsAffected() == 0 {
			// Lost the race (or the product vanished). The deferred
			// rollback undoes the order and every decrement so far.
			var avail int
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, l.ProductID).Scan(&avail)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, &ProductNotFoundError{ProductID: l.ProductID}
			}
			if err != nil {
				return nil, nil, &PersistenceError{Op: "decrement", Err: err}
			}
			return nil, nil, &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      priced[l.ProductID].Name,
				Available: avail,
				Requested: l.Qty,
			}
		}
	}

	after, err := readRows(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}
	levels := make([]StockLevel, 0, len(ids))
	for _, id := range ids {
		levels = append(levels, StockLevel{ProductID: id, Stock: after[id].Stock})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, &PersistenceError{Op: "commit", Err: err}
	}
	return &o, levels, nil
}

func readRows(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]ProductRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, price_cents, stock FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, &PersistenceError{Op: "read products", Err: err}
	}
	defer rows.Close()

	out := make(map[int64]ProductRow, len(ids))
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock); err != nil {
			return nil, &PersistenceError{Op: "read products", Err: err}
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "read products", Err: err}
	}
	return out, nil
}

func distinctIDs(lines []Line) []int64 {
	seen := make(map[int64]bool, len(lines))
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			out = append(out, l.ProductID)
		}
	}
	return out
}
