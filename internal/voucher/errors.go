package voucher

import (
	"errors"
	"fmt"
)

// Rejection reasons. Kept distinct so the storefront can tell the customer
// what is actually wrong instead of a generic "invalid voucher".
const (
	ReasonInactive       = "inactive"
	ReasonNotYetActive   = "not_yet_active"
	ReasonExpired        = "expired"
	ReasonUsageExhausted = "usage_exhausted"
	ReasonBelowMinimum   = "below_minimum_amount"
	ReasonCustomerLimit  = "customer_limit_reached"
)

var ErrVoucherNotFound = errors.New("voucher not found")

type InvalidVoucherError struct {
	Code   string
	Reason string
}

func (e *InvalidVoucherError) Error() string {
	return fmt.Sprintf("voucher %s rejected: %s", e.Code, e.Reason)
}

func IsInvalidVoucher(err error) bool {
	var target *InvalidVoucherError
	return errors.As(err, &target)
}
