package inventory

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/inventory/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
)

// UseCase is the single source of truth for sellable stock. Every stock
// change in the system routes through here.
type UseCase interface {
	// Reserve places a provisional hold; fails with *InsufficientStockError
	// carrying the current available quantity. Reservations are not stock
	// events and write no movement.
	Reserve(ctx context.Context, productID string, variantID *string, qty int) error

	// Release returns reserved units to availability. Over-release clamps to
	// zero rather than erroring, so compensating rollbacks are idempotent.
	Release(ctx context.Context, productID string, variantID *string, qty int) error

	// ConfirmReservation is the only operation that removes physical stock.
	// Writes one movement with type=out referencing the order.
	ConfirmReservation(ctx context.Context, productID string, variantID *string, qty int, referenceID string) error

	// AdjustQuantity is a manual correction (receiving, damage, cycle count).
	// Does not touch reserved_quantity.
	AdjustQuantity(ctx context.Context, input *dto.AdjustQuantityInput) (*model.InventoryRecord, error)

	CanFulfill(ctx context.Context, productID string, variantID *string, qty int) (bool, error)
	GetStock(ctx context.Context, productID string, variantID *string) (*model.InventoryRecord, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.InventoryRecord, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
