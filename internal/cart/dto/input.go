package dto

type AddItemInput struct {
	ProductID string
	VariantID *string
	Quantity  int
}
