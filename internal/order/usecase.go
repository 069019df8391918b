package order

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/order/dto"
)

// UseCase is the transactional boundary that turns a cart into a durable
// Order and drives inventory and payment state. The acting user is always an
// explicit argument; nothing here reads ambient auth state.
type UseCase interface {
	// Checkout runs the creation saga: reserve stock, quote shipping,
	// evaluate the voucher, initiate payment, persist, empty the cart.
	// Reservations taken during a failed attempt are always released.
	// A repeated idempotency key returns the order created first.
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error)

	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByCode(ctx context.Context, code string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error)

	// ApplyPaymentStatus drives the payment state machine. Re-applying the
	// current status is a no-op; illegal edges are rejected. paid confirms
	// reservations exactly once; failed/expired/cancelled release them.
	ApplyPaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error

	UpdateShippingStatus(ctx context.Context, orderID string, status model.ShippingStatus) error

	// ConfirmDelivery is the customer-initiated shipped -> delivered edge.
	ConfirmDelivery(ctx context.Context, orderID, userID string) error

	// Cancel is allowed only while payment is pending/failed and shipping is
	// still pending. Releases reserved stock.
	Cancel(ctx context.Context, orderID, userID string) error
}
