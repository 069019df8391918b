package cart

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/auth"
	"github.com/hanifmaliki/shopcore/internal/cart/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
)

// UseCase holds pending purchase intent. Stock checks here are advisory:
// they lower the checkout failure rate, but the reservation taken at
// checkout is the real enforcement point.
type UseCase interface {
	GetCart(ctx context.Context, owner auth.Owner) (*model.Cart, error)
	AddItem(ctx context.Context, owner auth.Owner, input *dto.AddItemInput) (*model.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID string, qty int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context, owner auth.Owner) error

	// MergeGuestCart folds a guest cart into the user's cart at login.
	// Lines that no longer fit current inventory are skipped, not fatal;
	// the skipped count is reported back.
	MergeGuestCart(ctx context.Context, sessionID, userID string) (skipped int, err error)
}
