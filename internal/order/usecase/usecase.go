package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/internal/cart"
	"github.com/hanifmaliki/shopcore/internal/inventory"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/order"
	"github.com/hanifmaliki/shopcore/internal/order/dto"
	"github.com/hanifmaliki/shopcore/internal/payment"
	"github.com/hanifmaliki/shopcore/internal/shipping"
	"github.com/hanifmaliki/shopcore/internal/voucher"
	"github.com/hanifmaliki/shopcore/pkg/broker"
	"github.com/hanifmaliki/shopcore/pkg/logger"
	"github.com/hanifmaliki/shopcore/pkg/metrics"
)

type orderUseCase struct {
	repo     order.Repository
	carts    cart.Repository
	vouchers voucher.Repository
	invUC    inventory.UseCase
	rates    shipping.RateClient
	gateway  payment.Gateway
	events   broker.Publisher
	logger   logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	carts cart.Repository,
	vouchers voucher.Repository,
	invUC inventory.UseCase,
	rates shipping.RateClient,
	gateway payment.Gateway,
	events broker.Publisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		carts:    carts,
		vouchers: vouchers,
		invUC:    invUC,
		rates:    rates,
		gateway:  gateway,
		events:   events,
		logger:   log,
	}
}

// reservedLine tracks one hold taken during a checkout attempt so a failure
// later in the saga can give it back.
type reservedLine struct {
	productID string
	variantID *string
	qty       int
}

// rollbackReservations is the compensating action for the checkout saga. It
// must never fail the caller: the original error is what the customer sees.
func (uc *orderUseCase) rollbackReservations(ctx context.Context, reserved []reservedLine) {
	if len(reserved) == 0 {
		return
	}
	metrics.CheckoutRollbacks.Inc()
	for _, line := range reserved {
		if err := uc.invUC.Release(ctx, line.productID, line.variantID, line.qty); err != nil {
			uc.logger.Error("failed to release reservation during checkout rollback",
				zap.String("product_id", line.productID),
				zap.Int("quantity", line.qty),
				zap.Error(err))
		}
	}
}

func generateOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

func (uc *orderUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error) {
	if input.IdempotencyKey == "" {
		return nil, errors.New("idempotency key is required")
	}

	// Fast path for retried requests: the first order under this key wins.
	if existing, err := uc.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey); err == nil {
		return existing, nil
	} else if !errors.Is(err, order.ErrOrderNotFound) {
		return nil, err
	}

	c, err := uc.carts.GetByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, order.ErrEmptyCart
	}

	// Step 1: reserve every line. This is the enforcement point against
	// overselling; everything after it must release on failure.
	reserved := make([]reservedLine, 0, len(c.Items))
	for _, item := range c.Items {
		if err := uc.invUC.Reserve(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			uc.rollbackReservations(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, reservedLine{
			productID: item.ProductID,
			variantID: item.VariantID,
			qty:       item.Quantity,
		})
	}

	// External calls happen with no DB lock held.
	subtotal := c.Subtotal()
	shippingCost, err := uc.rates.CalculateCost(ctx, input.DestinationCity, input.Courier, input.CourierService, c.TotalWeightGrams())
	if err != nil {
		uc.rollbackReservations(ctx, reserved)
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}

	var appliedVoucher *model.Voucher
	var discount int64
	if input.VoucherCode != "" {
		appliedVoucher, discount, err = uc.evaluateVoucher(ctx, input.VoucherCode, input.UserID, subtotal, shippingCost)
		if err != nil {
			uc.rollbackReservations(ctx, reserved)
			return nil, err
		}
	}

	finalSubtotal := subtotal
	finalShipping := shippingCost
	if appliedVoucher != nil {
		if appliedVoucher.Type == model.VoucherTypeFreeShipping {
			finalShipping -= discount
			if finalShipping < 0 {
				finalShipping = 0
			}
		} else {
			finalSubtotal -= discount
			if finalSubtotal < 0 {
				finalSubtotal = 0
			}
		}
	}

	now := time.Now()
	o := &model.Order{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:            generateOrderCode(),
		IdempotencyKey:  input.IdempotencyKey,
		UserID:          input.UserID,
		DestinationCity: input.DestinationCity,
		Courier:         input.Courier,
		CourierService:  input.CourierService,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		DiscountAmount:  discount,
		Total:           finalSubtotal + finalShipping,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingStatus:  model.ShippingStatusPending,
	}
	if appliedVoucher != nil {
		o.VoucherID = &appliedVoucher.ID
		o.VoucherCode = &appliedVoucher.Code
	}

	for _, item := range c.Items {
		o.Items = append(o.Items, model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Price:       item.Price,
			Quantity:    item.Quantity,
			WeightGrams: item.WeightGrams,
		})
	}

	// Initiate payment before persisting: if the gateway refuses, no order
	// row ever exists and the reservations are simply given back. The DB
	// never holds a lock across this call.
	txn, err := uc.gateway.CreateTransaction(ctx, o)
	if err != nil {
		uc.rollbackReservations(ctx, reserved)
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}
	o.PaymentRef = &txn.Reference
	o.PaymentURL = &txn.RedirectURL

	shipment := &model.Shipment{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderID:        o.ID,
		Courier:        input.Courier,
		CourierService: input.CourierService,
		Cost:           finalShipping,
		Status:         string(model.ShippingStatusPending),
	}

	var usage *model.VoucherUsage
	if appliedVoucher != nil {
		usage = &model.VoucherUsage{
			ID:             uuid.New().String(),
			VoucherID:      appliedVoucher.ID,
			OrderID:        o.ID,
			UserID:         input.UserID,
			DiscountAmount: discount,
			CreatedAt:      now,
		}
	}

	if err := uc.repo.Create(ctx, o, shipment, usage); err != nil {
		uc.rollbackReservations(ctx, reserved)
		if errors.Is(err, order.ErrDuplicateIdempotencyKey) {
			// A concurrent retry with the same key won the race. Its order
			// is the canonical one.
			return uc.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		}
		return nil, err
	}

	if err := uc.carts.ClearItems(ctx, c.ID); err != nil {
		uc.logger.Warn("failed to empty cart after checkout",
			zap.String("order_code", o.Code), zap.Error(err))
	}

	metrics.OrdersCreated.Inc()
	uc.publishEvent(ctx, order.EventOrderCreated, o)

	return o, nil
}

func (uc *orderUseCase) evaluateVoucher(ctx context.Context, code, userID string, subtotal, shippingCost int64) (*model.Voucher, int64, error) {
	v, err := uc.vouchers.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}

	usedByCustomer := 0
	if v.UsageLimitPerCustomer != nil {
		usedByCustomer, err = uc.vouchers.CountPaidUsagesByCustomer(ctx, v.ID, userID)
		if err != nil {
			return nil, 0, err
		}
	}

	if err := voucher.CanBeUsedBy(v, subtotal, usedByCustomer, time.Now()); err != nil {
		return nil, 0, err
	}

	return v, voucher.CalculateDiscount(v, subtotal, shippingCost), nil
}

func (uc *orderUseCase) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *orderUseCase) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	return uc.repo.GetByCode(ctx, code)
}

func (uc *orderUseCase) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error) {
	return uc.repo.ListByUser(ctx, userID, page, pageSize)
}

func (uc *orderUseCase) ApplyPaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	// Redelivered notification carrying the status we already hold.
	if o.PaymentStatus == status {
		return nil
	}

	if !o.PaymentStatus.CanTransitionTo(status) {
		return &order.IllegalTransitionError{
			Field: "payment_status",
			From:  string(o.PaymentStatus),
			To:    string(status),
		}
	}

	var paidAt *time.Time
	if status == model.PaymentStatusPaid {
		now := time.Now()
		paidAt = &now
	}

	// Compare-and-swap on the previous status: of N racing deliveries only
	// one performs the transition and its inventory side effects.
	ok, err := uc.repo.UpdatePaymentStatus(ctx, orderID, o.PaymentStatus, status, paidAt)
	if err != nil {
		return err
	}
	if !ok {
		current, err := uc.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current.PaymentStatus == status {
			return nil // the racing delivery already applied it
		}
		return &order.IllegalTransitionError{
			Field: "payment_status",
			From:  string(current.PaymentStatus),
			To:    string(status),
		}
	}

	switch status {
	case model.PaymentStatusPaid:
		// The only path that turns holds into permanent deductions.
		for _, item := range o.Items {
			if err := uc.invUC.ConfirmReservation(ctx, item.ProductID, item.VariantID, item.Quantity, o.ID); err != nil {
				uc.logger.Error("failed to confirm reservation for paid order",
					zap.String("order_code", o.Code),
					zap.String("product_id", item.ProductID),
					zap.Error(err))
			}
		}
		uc.publishEvent(ctx, order.EventOrderPaid, o)
	case model.PaymentStatusFailed, model.PaymentStatusExpired, model.PaymentStatusCancelled:
		for _, item := range o.Items {
			if err := uc.invUC.Release(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				uc.logger.Error("failed to release reservation",
					zap.String("order_code", o.Code),
					zap.String("product_id", item.ProductID),
					zap.Error(err))
			}
		}
	case model.PaymentStatusRefunded:
		// No automatic restock. Returned goods re-enter stock through a
		// manual adjustment once they are inspected.
	}

	return nil
}

func (uc *orderUseCase) UpdateShippingStatus(ctx context.Context, orderID string, status model.ShippingStatus) error {
	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.ShippingStatus == status {
		return nil
	}

	if !o.ShippingStatus.CanTransitionTo(status) {
		return &order.IllegalTransitionError{
			Field: "shipping_status",
			From:  string(o.ShippingStatus),
			To:    string(status),
		}
	}

	ok, err := uc.repo.UpdateShippingStatus(ctx, orderID, o.ShippingStatus, status)
	if err != nil {
		return err
	}
	if !ok {
		current, err := uc.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current.ShippingStatus == status {
			return nil
		}
		return &order.IllegalTransitionError{
			Field: "shipping_status",
			From:  string(current.ShippingStatus),
			To:    string(status),
		}
	}
	return nil
}

func (uc *orderUseCase) ConfirmDelivery(ctx context.Context, orderID, userID string) error {
	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return order.ErrOrderNotFound
	}
	return uc.UpdateShippingStatus(ctx, orderID, model.ShippingStatusDelivered)
}

func (uc *orderUseCase) Cancel(ctx context.Context, orderID, userID string) error {
	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return order.ErrOrderNotFound
	}
	if !o.IsCancellable() {
		return order.ErrNotCancellable
	}

	if err := uc.ApplyPaymentStatus(ctx, orderID, model.PaymentStatusCancelled); err != nil {
		return err
	}
	if err := uc.UpdateShippingStatus(ctx, orderID, model.ShippingStatusCancelled); err != nil {
		return err
	}

	uc.publishEvent(ctx, order.EventOrderCancelled, o)
	return nil
}

// publishEvent is best-effort: the order is already durable, a broker outage
// must not fail the customer-facing operation.
func (uc *orderUseCase) publishEvent(ctx context.Context, eventType string, o *model.Order) {
	if uc.events == nil {
		return
	}

	payload := order.EventPayload{
		OrderID:   o.ID,
		OrderCode: o.Code,
		UserID:    o.UserID,
		Total:     o.Total,
	}
	for _, item := range o.Items {
		payload.Items = append(payload.Items, order.EventItemPayload{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	event := order.Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	if err := uc.events.Publish(ctx, o.ID, event); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_code", o.Code),
			zap.Error(err))
	}
}
