package model

import "time"

type VoucherType string

const (
	VoucherTypePercentage   VoucherType = "percentage"
	VoucherTypeFixedAmount  VoucherType = "fixed_amount"
	VoucherTypeFreeShipping VoucherType = "free_shipping"
)

type Voucher struct {
	BaseModel
	Code                  string      `db:"code"`
	Type                  VoucherType `db:"type"`
	Value                 int64       `db:"value"`
	MinimumAmount         *int64      `db:"minimum_amount"`
	MaximumDiscount       *int64      `db:"maximum_discount"`
	UsageLimit            *int        `db:"usage_limit"`
	UsageLimitPerCustomer *int        `db:"usage_limit_per_customer"`
	StartsAt              time.Time   `db:"starts_at"`
	ExpiresAt             time.Time   `db:"expires_at"`
	IsActive              bool        `db:"is_active"`
	UsedCount             int         `db:"used_count"`
}

// VoucherUsage records one application of a voucher to an order. used_count on
// the voucher is incremented in the same transaction.
type VoucherUsage struct {
	ID             string    `db:"id"`
	VoucherID      string    `db:"voucher_id"`
	OrderID        string    `db:"order_id"`
	UserID         string    `db:"user_id"`
	DiscountAmount int64     `db:"discount_amount"`
	CreatedAt      time.Time `db:"created_at"`
}
