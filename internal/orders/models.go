package orders

import "time"

// Order and its items are created together in the checkout transaction and
// are read-only afterwards. Prices are snapshots taken at commit time, so
// later catalog edits do not rewrite order history.
type Order struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"userId"`
	Status     Status      `json:"status"`
	TotalCents int         `json:"total"`
	CreatedAt  time.Time   `json:"createdAt"`
	Items      []OrderItem `json:"items"`
}

type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"orderId"`
	ProductID  int64 `json:"productId"`
	Qty        int   `json:"quantity"`
	PriceCents int   `json:"price"`
}
