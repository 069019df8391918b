package model

// Product is the read-only catalog surface this core consumes. Catalog CRUD
// lives elsewhere; settlement only needs identity, pricing, weight and the
// active flag for snapshotting into carts and orders.
type Product struct {
	BaseModel
	CategoryID     *string          `db:"category_id" json:"category_id"`
	SKU            string           `db:"sku" json:"sku"`
	Name           string           `db:"name" json:"name"`
	Description    *string          `db:"description" json:"description"`
	BasePrice      int64            `db:"base_price" json:"base_price"`
	WeightGrams    int              `db:"weight_grams" json:"weight_grams"`
	HasVariants    bool             `db:"has_variants" json:"has_variants"`
	TrackInventory bool             `db:"track_inventory" json:"track_inventory"`
	IsActive       bool             `db:"is_active" json:"is_active"`
	Variants       []ProductVariant `db:"-" json:"variants"`
}

type ProductVariant struct {
	BaseModel
	ProductID       string `db:"product_id" json:"product_id"`
	SKU             string `db:"sku" json:"sku"`
	VariantName     string `db:"variant_name" json:"variant_name"`
	PriceAdjustment int64  `db:"price_adjustment" json:"price_adjustment"`
	IsActive        bool   `db:"is_active" json:"is_active"`
}

// UnitPrice is the price a cart line locks in at add-time.
func (p *Product) UnitPrice(variant *ProductVariant) int64 {
	if variant == nil {
		return p.BasePrice
	}
	return p.BasePrice + variant.PriceAdjustment
}
