package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/internal/inventory"
	"github.com/hanifmaliki/shopcore/internal/inventory/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/pkg/cache"
	"github.com/hanifmaliki/shopcore/pkg/logger"
	"github.com/hanifmaliki/shopcore/pkg/metrics"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, cache *cache.RedisClient, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *inventoryUseCase) Reserve(ctx context.Context, productID string, variantID *string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}

	ok, err := uc.repo.Reserve(ctx, productID, variantID, qty)
	if err != nil {
		return err
	}
	if ok {
		metrics.ReservationAttempts.WithLabelValues("ok").Inc()
		return nil
	}
	metrics.ReservationAttempts.WithLabelValues("insufficient").Inc()

	// The conditional update refused; re-read so the caller can report how
	// much is actually left.
	available := 0
	rec, err := uc.repo.GetByProduct(ctx, productID, variantID)
	if err != nil {
		uc.logger.Error("failed to read stock after rejected reservation",
			zap.String("product_id", productID), zap.Error(err))
	} else if rec != nil {
		available = rec.Available()
	}

	return &inventory.InsufficientStockError{
		ProductID: productID,
		VariantID: variantID,
		Requested: qty,
		Available: available,
	}
}

func (uc *inventoryUseCase) Release(ctx context.Context, productID string, variantID *string, qty int) error {
	if qty <= 0 {
		return nil
	}
	return uc.repo.Release(ctx, productID, variantID, qty)
}

func (uc *inventoryUseCase) ConfirmReservation(ctx context.Context, productID string, variantID *string, qty int, referenceID string) error {
	if qty <= 0 {
		return nil
	}

	actual, err := uc.repo.ConfirmReservation(ctx, productID, variantID, qty, "order sale", referenceID)
	if err != nil {
		return err
	}
	if actual < qty {
		// Not fatal: a redelivered confirmation already converted part or all
		// of the hold. Worth a log line for reconciliation audits.
		uc.logger.Warn("confirmed less than requested",
			zap.String("product_id", productID),
			zap.String("reference_id", referenceID),
			zap.Int("requested", qty),
			zap.Int("confirmed", actual))
	}
	return nil
}

func (uc *inventoryUseCase) AdjustQuantity(ctx context.Context, input *dto.AdjustQuantityInput) (*model.InventoryRecord, error) {
	lockKey := fmt.Sprintf("lock:inventory:%s", input.ProductID)
	if input.VariantID != nil {
		lockKey += ":" + *input.VariantID
	}
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}
	defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)

	rec, err := uc.repo.GetByProduct(ctx, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if rec == nil {
		rec = &model.InventoryRecord{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  0,
			UpdatedAt: now,
		}
	}

	quantityBefore := rec.Quantity
	rec.Quantity += input.Delta
	rec.UpdatedAt = now

	if rec.Quantity < rec.ReservedQuantity {
		return nil, &inventory.InsufficientStockError{
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Requested: -input.Delta,
			Available: quantityBefore - rec.ReservedQuantity,
		}
	}

	movementType := model.MovementTypeIn
	if input.Delta < 0 {
		movementType = model.MovementTypeAdjustment
	}

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}

	movement := &model.InventoryMovement{
		ID:               uuid.New().String(),
		ProductID:        input.ProductID,
		VariantID:        input.VariantID,
		MovementType:     movementType,
		QuantityDelta:    input.Delta,
		PreviousQuantity: quantityBefore,
		Reason:           input.Reason,
		ReferenceType:    refType,
		ReferenceID:      refID,
		CreatedAt:        now,
	}

	if err := uc.repo.AdjustWithMovement(ctx, rec, movement); err != nil {
		return nil, err
	}

	return rec, nil
}

func (uc *inventoryUseCase) CanFulfill(ctx context.Context, productID string, variantID *string, qty int) (bool, error) {
	rec, err := uc.repo.GetByProduct(ctx, productID, variantID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	return rec.Available() >= qty, nil
}

func (uc *inventoryUseCase) GetStock(ctx context.Context, productID string, variantID *string) (*model.InventoryRecord, error) {
	rec, err := uc.repo.GetByProduct(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// Zero record keeps callers from branching on nil.
		return &model.InventoryRecord{
			ProductID: productID,
			VariantID: variantID,
		}, nil
	}
	return rec, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]model.InventoryRecord, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
