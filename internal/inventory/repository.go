package inventory

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/inventory/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
)

// Repository owns the atomicity contract of the ledger. Reserve, Release and
// ConfirmReservation must each be race-free per (product, variant) row: two
// concurrent reservations against one remaining unit must not both succeed.
type Repository interface {
	GetByProduct(ctx context.Context, productID string, variantID *string) (*model.InventoryRecord, error)
	BatchGetByProducts(ctx context.Context, productIDs []string) ([]model.InventoryRecord, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryRecord, int, error)
	CreateOrUpdate(ctx context.Context, rec *model.InventoryRecord) error

	// Reserve atomically takes a provisional hold. Returns false when
	// available stock is below qty; no partial effect in that case.
	Reserve(ctx context.Context, productID string, variantID *string, qty int) (bool, error)

	// Release gives back up to qty reserved units. Idempotent under
	// over-release: reserved_quantity never goes below zero.
	Release(ctx context.Context, productID string, variantID *string, qty int) error

	// ConfirmReservation converts min(qty, reserved) into a permanent
	// deduction and writes the movement in the same transaction. Returns the
	// quantity actually confirmed.
	ConfirmReservation(ctx context.Context, productID string, variantID *string, qty int, reason, referenceID string) (int, error)

	// AdjustWithMovement upserts the record and appends the movement in one
	// transaction.
	AdjustWithMovement(ctx context.Context, rec *model.InventoryRecord, movement *model.InventoryMovement) error

	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
