package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/internal/auth"
	"github.com/hanifmaliki/shopcore/internal/cart"
	"github.com/hanifmaliki/shopcore/internal/cart/dto"
	"github.com/hanifmaliki/shopcore/internal/inventory"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/product"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

var ErrProductInactive = errors.New("product is not available for sale")

type cartUseCase struct {
	repo     cart.Repository
	products product.Reader
	invUC    inventory.UseCase
	logger   logger.ZapLogger
}

func NewCartUseCase(repo cart.Repository, products product.Reader, invUC inventory.UseCase, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		repo:     repo,
		products: products,
		invUC:    invUC,
		logger:   log,
	}
}

func (uc *cartUseCase) getByOwner(ctx context.Context, owner auth.Owner) (*model.Cart, error) {
	if owner.UserID != "" {
		return uc.repo.GetByUser(ctx, owner.UserID)
	}
	return uc.repo.GetBySession(ctx, owner.SessionID)
}

func (uc *cartUseCase) getOrCreate(ctx context.Context, owner auth.Owner) (*model.Cart, error) {
	c, err := uc.getByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	now := time.Now()
	c = &model.Cart{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
	}
	if owner.UserID != "" {
		userID := owner.UserID
		c.UserID = &userID
	} else {
		sessionID := owner.SessionID
		c.SessionID = &sessionID
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *cartUseCase) GetCart(ctx context.Context, owner auth.Owner) (*model.Cart, error) {
	c, err := uc.getByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &model.Cart{Items: []model.CartItem{}}, nil
	}
	return c, nil
}

// checkStock is advisory; reservation at checkout is the enforcement point.
// It still returns the typed insufficient-stock error so the storefront can
// report the quantity actually left.
func (uc *cartUseCase) checkStock(ctx context.Context, p *model.Product, variantID *string, wantQty int) error {
	if !p.TrackInventory {
		return nil
	}
	rec, err := uc.invUC.GetStock(ctx, p.ID, variantID)
	if err != nil {
		return err
	}
	if rec.Available() < wantQty {
		return &inventory.InsufficientStockError{
			ProductID: p.ID,
			VariantID: variantID,
			Requested: wantQty,
			Available: rec.Available(),
		}
	}
	return nil
}

func (uc *cartUseCase) AddItem(ctx context.Context, owner auth.Owner, input *dto.AddItemInput) (*model.Cart, error) {
	if input.Quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProductInactive
	}

	var variant *model.ProductVariant
	if input.VariantID != nil && *input.VariantID != "" {
		variant, err = uc.products.FindVariant(ctx, p.ID, *input.VariantID)
		if err != nil {
			return nil, err
		}
		if !variant.IsActive {
			return nil, ErrProductInactive
		}
	}

	c, err := uc.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	existing := c.FindItem(input.ProductID, input.VariantID)
	wantQty := input.Quantity
	if existing != nil {
		wantQty += existing.Quantity
	}

	if err := uc.checkStock(ctx, p, input.VariantID, wantQty); err != nil {
		return nil, err
	}

	if existing != nil {
		// One line per (product, variant): merge quantities, keep the price
		// locked in when the line was first added.
		if err := uc.repo.UpdateItemQuantity(ctx, existing.ID, wantQty); err != nil {
			return nil, err
		}
		existing.Quantity = wantQty
		return c, nil
	}

	sku := p.SKU
	if variant != nil {
		sku = variant.SKU
	}
	now := time.Now()
	item := model.CartItem{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CartID:      c.ID,
		ProductID:   p.ID,
		VariantID:   input.VariantID,
		ProductName: p.Name,
		SKU:         sku,
		Quantity:    input.Quantity,
		Price:       p.UnitPrice(variant),
		WeightGrams: p.WeightGrams,
	}
	if err := uc.repo.InsertItem(ctx, &item); err != nil {
		return nil, err
	}
	c.Items = append(c.Items, item)

	return c, nil
}

func (uc *cartUseCase) UpdateItemQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be at least 1")
	}

	item, err := uc.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return cart.ErrCartItemNotFound
	}

	p, err := uc.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}

	// Re-check against the new absolute quantity, not the delta.
	if err := uc.checkStock(ctx, p, item.VariantID, qty); err != nil {
		return err
	}

	return uc.repo.UpdateItemQuantity(ctx, itemID, qty)
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, itemID string) error {
	return uc.repo.DeleteItem(ctx, itemID)
}

func (uc *cartUseCase) Clear(ctx context.Context, owner auth.Owner) error {
	c, err := uc.getByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	return uc.repo.ClearItems(ctx, c.ID)
}

func (uc *cartUseCase) MergeGuestCart(ctx context.Context, sessionID, userID string) (int, error) {
	guest, err := uc.repo.GetBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if guest == nil || len(guest.Items) == 0 {
		return 0, nil
	}

	userCart, err := uc.getOrCreate(ctx, auth.Owner{UserID: userID})
	if err != nil {
		return 0, err
	}

	skipped := 0
	for _, guestItem := range guest.Items {
		p, err := uc.products.FindByID(ctx, guestItem.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				skipped++
				continue
			}
			return skipped, err
		}
		if !p.IsActive {
			skipped++
			continue
		}

		existing := userCart.FindItem(guestItem.ProductID, guestItem.VariantID)
		combined := guestItem.Quantity
		if existing != nil {
			combined += existing.Quantity
		}

		if err := uc.checkStock(ctx, p, guestItem.VariantID, combined); err != nil {
			if inventory.IsInsufficientStock(err) {
				skipped++
				continue
			}
			return skipped, err
		}

		if existing != nil {
			if err := uc.repo.UpdateItemQuantity(ctx, existing.ID, combined); err != nil {
				return skipped, err
			}
			existing.Quantity = combined
		} else {
			now := time.Now()
			item := guestItem
			item.ID = uuid.New().String()
			item.CartID = userCart.ID
			item.CreatedAt = now
			item.UpdatedAt = now
			if err := uc.repo.InsertItem(ctx, &item); err != nil {
				return skipped, err
			}
			userCart.Items = append(userCart.Items, item)
		}
	}

	if err := uc.repo.DeleteCart(ctx, guest.ID); err != nil {
		// The merge itself succeeded; a stale guest cart is not worth
		// failing the login flow over.
		uc.logger.Warn("failed to delete merged guest cart",
			zap.String("cart_id", guest.ID), zap.Error(err))
	}

	return skipped, nil
}
