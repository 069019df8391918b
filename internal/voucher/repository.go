package voucher

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/model"
)

// Repository is the read surface the settlement engine validates against.
// Usage writes happen inside the order-creation transaction (order
// repository) so voucher accounting commits or rolls back with the order.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
	// CountPaidUsagesByCustomer counts this customer's paid orders that
	// applied the voucher. Pending/failed orders don't consume the
	// per-customer allowance.
	CountPaidUsagesByCustomer(ctx context.Context, voucherID, userID string) (int, error)
}
