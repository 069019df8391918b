package model

import "time"

// Movement types for the append-only inventory audit trail.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeAdjustment = "adjustment"
)

// Reference types attached to movements.
const (
	ReferenceTypeOrder  = "order"
	ReferenceTypeManual = "manual_adjustment"
)

// InventoryRecord tracks sellable stock for one (product, variant) pair.
// available = quantity - reserved_quantity and is never negative; the
// repository enforces that with conditional updates, not application checks.
type InventoryRecord struct {
	ID               string    `db:"id"`
	ProductID        string    `db:"product_id"`
	VariantID        *string   `db:"variant_id"`
	Quantity         int       `db:"quantity"`
	ReservedQuantity int       `db:"reserved_quantity"`
	MinimumStock     int       `db:"minimum_stock"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r *InventoryRecord) Available() int {
	return r.Quantity - r.ReservedQuantity
}

// InventoryMovement is one immutable entry in the stock audit log. Created
// once per physical quantity change, never updated or deleted.
type InventoryMovement struct {
	ID               string    `db:"id"`
	ProductID        string    `db:"product_id"`
	VariantID        *string   `db:"variant_id"`
	MovementType     string    `db:"movement_type"`
	QuantityDelta    int       `db:"quantity_delta"`
	PreviousQuantity int       `db:"previous_quantity"`
	Reason           string    `db:"reason"`
	ReferenceType    *string   `db:"reference_type"`
	ReferenceID      *string   `db:"reference_id"`
	CreatedAt        time.Time `db:"created_at"`
}
