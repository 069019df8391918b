package model

// Cart is owned by exactly one registered user or one anonymous session,
// never both. Guest carts are merged into the user cart at login.
type Cart struct {
	BaseModel
	UserID    *string    `db:"user_id"`
	SessionID *string    `db:"session_id"`
	Items     []CartItem `db:"-"`
}

// CartItem holds purchase intent for one (product, variant) pair. At most one
// line per pair exists in a cart; adds merge into the existing line. Price and
// weight are captured at add-time.
type CartItem struct {
	BaseModel
	CartID      string  `db:"cart_id"`
	ProductID   string  `db:"product_id"`
	VariantID   *string `db:"variant_id"`
	ProductName string  `db:"product_name"`
	SKU         string  `db:"sku"`
	Quantity    int     `db:"quantity"`
	Price       int64   `db:"price"`
	WeightGrams int     `db:"weight_grams"`
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += int64(item.Quantity) * item.Price
	}
	return total
}

func (c *Cart) TotalWeightGrams() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity * item.WeightGrams
	}
	return total
}

// FindItem returns the line matching the (product, variant) pair, or nil.
func (c *Cart) FindItem(productID string, variantID *string) *CartItem {
	for i := range c.Items {
		item := &c.Items[i]
		if item.ProductID != productID {
			continue
		}
		if equalVariant(item.VariantID, variantID) {
			return item
		}
	}
	return nil
}

func equalVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
