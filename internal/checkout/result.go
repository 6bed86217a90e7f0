package checkout

import "github.com/tambeaditya101/next-ecom-api/internal/orders"

// Result is the success shape: the committed order plus the stock each
// touched product was left with, so the storefront can refresh its view.
type Result struct {
	Order           *orders.Order `json:"order"`
	UpdatedProducts []StockLevel  `json:"updatedProducts"`
}

func assemble(o *orders.Order, levels []StockLevel) *Result {
	if levels == nil {
		levels = []StockLevel{}
	}
	return &Result{Order: o, UpdatedProducts: levels}
}
