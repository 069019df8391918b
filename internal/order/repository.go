package order

import (
	"context"
	"time"

	"github.com/hanifmaliki/shopcore/internal/model"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByCode(ctx context.Context, code string) (*model.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error)

	// Create persists the order, its snapshotted items, the shipment record
	// and the voucher usage (incrementing used_count) in one transaction.
	// Returns ErrDuplicateIdempotencyKey when the key is already taken.
	Create(ctx context.Context, order *model.Order, shipment *model.Shipment, usage *model.VoucherUsage) error

	// UpdatePaymentStatus is a compare-and-swap on payment_status: the write
	// only happens when the row still holds `from`. Returns false when it
	// doesn't — concurrent webhooks serialize through this.
	UpdatePaymentStatus(ctx context.Context, id string, from, to model.PaymentStatus, paidAt *time.Time) (bool, error)

	UpdateShippingStatus(ctx context.Context, id string, from, to model.ShippingStatus) (bool, error)
}
