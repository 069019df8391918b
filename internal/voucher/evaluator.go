package voucher

import (
	"time"

	"github.com/hanifmaliki/shopcore/internal/model"
)

// The evaluator is pure: validity, eligibility and discount amounts are
// computed from inputs alone. Recording a usage (and bumping used_count)
// belongs to the order settlement transaction, not here.

// IsValid checks the voucher itself: active, inside its validity window and
// with global usage remaining.
func IsValid(v *model.Voucher, now time.Time) error {
	if !v.IsActive {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonInactive}
	}
	if now.Before(v.StartsAt) {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonNotYetActive}
	}
	if now.After(v.ExpiresAt) {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonExpired}
	}
	if v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonUsageExhausted}
	}
	return nil
}

// CanBeUsedBy layers the per-order checks on top of IsValid. usedByCustomer
// is the customer's count of paid orders that applied this voucher.
func CanBeUsedBy(v *model.Voucher, cartTotal int64, usedByCustomer int, now time.Time) error {
	if err := IsValid(v, now); err != nil {
		return err
	}
	if v.MinimumAmount != nil && cartTotal < *v.MinimumAmount {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonBelowMinimum}
	}
	if v.UsageLimitPerCustomer != nil && usedByCustomer >= *v.UsageLimitPerCustomer {
		return &InvalidVoucherError{Code: v.Code, Reason: ReasonCustomerLimit}
	}
	return nil
}

// CalculateDiscount returns the discount amount for the voucher type.
// free_shipping discounts are applied against shipping cost by the caller;
// the other types reduce the cart subtotal.
func CalculateDiscount(v *model.Voucher, cartTotal, shippingCost int64) int64 {
	switch v.Type {
	case model.VoucherTypePercentage:
		discount := cartTotal * v.Value / 100
		if v.MaximumDiscount != nil && discount > *v.MaximumDiscount {
			discount = *v.MaximumDiscount
		}
		return discount
	case model.VoucherTypeFixedAmount:
		if v.Value > cartTotal {
			return cartTotal
		}
		return v.Value
	case model.VoucherTypeFreeShipping:
		discount := shippingCost
		if v.MaximumDiscount != nil && *v.MaximumDiscount < discount {
			discount = *v.MaximumDiscount
		}
		return discount
	}
	return 0
}
