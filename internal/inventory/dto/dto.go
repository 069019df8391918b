package dto

import "time"

type InventoryFilters struct {
	ProductID string
	VariantID *string
	LowStock  bool // If true, filter by quantity - reserved_quantity <= minimum_stock
	Page      int
	PageSize  int
}

type MovementFilters struct {
	ProductID    string
	VariantID    *string
	MovementType string
	ReferenceID  string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
