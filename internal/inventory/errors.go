package inventory

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned when no inventory row exists for the
// (product, variant) pair.
var ErrRecordNotFound = errors.New("inventory record not found")

// InsufficientStockError is an expected, caller-visible outcome of reserve
// and fulfillment checks. It carries the quantity actually available so the
// storefront can say "only N left" instead of failing opaquely.
type InsufficientStockError struct {
	ProductID string
	VariantID *string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
