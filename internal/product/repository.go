package product

import (
	"context"
	"errors"

	"github.com/hanifmaliki/shopcore/internal/model"
)

var ErrProductNotFound = errors.New("product not found")
var ErrVariantNotFound = errors.New("product variant not found")

// Reader is the read-only catalog surface the settlement core consumes.
// Catalog writes happen in another service.
type Reader interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindVariant(ctx context.Context, productID, variantID string) (*model.ProductVariant, error)
}
