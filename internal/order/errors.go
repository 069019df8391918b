package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")

	// ErrDuplicateIdempotencyKey is the repository-level signal for a unique
	// violation on idempotency_key. The usecase translates it into returning
	// the order already created under that key.
	ErrDuplicateIdempotencyKey = errors.New("order already exists for idempotency key")

	// ErrNotCancellable: the order is past the point where simple
	// cancellation applies; refunds/returns are a different flow.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// IllegalTransitionError rejects state-machine edges that don't exist.
// Redelivered webhooks carrying a stale status land here instead of silently
// overwriting a terminal state.
type IllegalTransitionError struct {
	Field string // "payment_status" or "shipping_status"
	From  string
	To    string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition %s -> %s", e.Field, e.From, e.To)
}

func IsIllegalTransition(err error) bool {
	var target *IllegalTransitionError
	return errors.As(err, &target)
}
