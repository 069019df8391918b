package dto

type AdjustQuantityInput struct {
	ProductID     string
	VariantID     *string
	Delta         int
	Reason        string
	ReferenceID   string
	ReferenceType string // 'manual_adjustment', 'order', 'return'
	ActorID       string
}
