package cart

import (
	"context"
	"errors"

	"github.com/hanifmaliki/shopcore/internal/model"
)

var ErrCartNotFound = errors.New("cart not found")
var ErrCartItemNotFound = errors.New("cart item not found")

type Repository interface {
	// GetByUser / GetBySession return nil when the owner has no cart yet;
	// carts are created lazily on first add.
	GetByUser(ctx context.Context, userID string) (*model.Cart, error)
	GetBySession(ctx context.Context, sessionID string) (*model.Cart, error)
	GetByID(ctx context.Context, id string) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error

	GetItemByID(ctx context.Context, itemID string) (*model.CartItem, error)
	InsertItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, qty int) error
	DeleteItem(ctx context.Context, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
	DeleteCart(ctx context.Context, cartID string) error
}
