package checkout

import "fmt"

// Line is one (productId, quantity) pair as submitted by the client. Any
// price field the client sends is simply not decoded; prices come from the
// catalog at commit time.
type Line struct {
	ProductID int64 `json:"id"`
	Qty       int   `json:"quantity"`
}

// CartRequest is transient checkout input. Duplicate product ids are kept
// as independent lines; quantities are never merged on the caller's behalf.
type CartRequest struct {
	UserID int64
	Lines  []Line
}

// Validate is a pure pre-check: shape only, no storage access.
func (c CartRequest) Validate() error {
	if c.UserID <= 0 {
		return ErrMissingIdentity
	}
	if len(c.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidCart)
	}
	for _, l := range c.Lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: bad product id %d", ErrInvalidCart, l.ProductID)
		}
		if l.Qty <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product %d", ErrInvalidCart, l.ProductID)
		}
	}
	return nil
}

// ProductIDs returns the distinct referenced ids in first-seen order.
func (c CartRequest) ProductIDs() []int64 {
	seen := make(map[int64]bool, len(c.Lines))
	out := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			out = append(out, l.ProductID)
		}
	}
	return out
}
