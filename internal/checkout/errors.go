package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCart     = errors.New("invalid cart")
	ErrMissingIdentity = errors.New("missing user identity")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("not enough stock for %s: available %d, requested %d",
		name, e.Available, e.Requested)
}

// PersistenceError wraps storage failures. The cause is kept for logs but
// must not be echoed to end users.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
