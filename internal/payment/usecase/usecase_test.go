package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/order"
	"github.com/hanifmaliki/shopcore/internal/order/dto"
	"github.com/hanifmaliki/shopcore/internal/payment"
	paydto "github.com/hanifmaliki/shopcore/internal/payment/dto"
	"github.com/hanifmaliki/shopcore/pkg/logger"
)

const testServerKey = "test-server-key"

type fakeLogRepo struct {
	entries []*model.PaymentLog
}

func (r *fakeLogRepo) Create(_ context.Context, log *model.PaymentLog) error {
	cp := *log
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeLogRepo) UpdateOutcome(_ context.Context, log *model.PaymentLog) error {
	for i, e := range r.entries {
		if e.ID == log.ID {
			cp := *log
			r.entries[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeLogRepo) ListByOrderCode(_ context.Context, orderCode string) ([]model.PaymentLog, error) {
	var out []model.PaymentLog
	for _, e := range r.entries {
		if e.OrderCode == orderCode {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) last() *model.PaymentLog {
	if len(r.entries) == 0 {
		return nil
	}
	return r.entries[len(r.entries)-1]
}

type appliedStatus struct {
	orderID string
	status  model.PaymentStatus
}

// fakeOrders stubs the settlement engine behind the order.UseCase interface;
// only GetByCode and ApplyPaymentStatus matter to the webhook path.
type fakeOrders struct {
	order    *model.Order
	applyErr error
	applied  []appliedStatus
}

func (f *fakeOrders) Checkout(_ context.Context, _ *dto.CheckoutInput) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*model.Order, error) {
	if f.order != nil && f.order.ID == id {
		return f.order, nil
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrders) GetByCode(_ context.Context, code string) (*model.Order, error) {
	if f.order != nil && f.order.Code == code {
		return f.order, nil
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrders) ListByUser(_ context.Context, _ string, _, _ int) ([]model.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeOrders) ApplyPaymentStatus(_ context.Context, orderID string, status model.PaymentStatus) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, appliedStatus{orderID: orderID, status: status})
	return nil
}

func (f *fakeOrders) UpdateShippingStatus(_ context.Context, _ string, _ model.ShippingStatus) error {
	return nil
}

func (f *fakeOrders) ConfirmDelivery(_ context.Context, _, _ string) error { return nil }

func (f *fakeOrders) Cancel(_ context.Context, _, _ string) error { return nil }

func newWebhookFixture() (*fakeLogRepo, *fakeOrders, payment.UseCase) {
	logs := &fakeLogRepo{}
	orders := &fakeOrders{
		order: &model.Order{
			BaseModel:     model.BaseModel{ID: "o-1"},
			Code:          "ORD-20260828-AB12CD34",
			PaymentStatus: model.PaymentStatusPending,
		},
	}
	uc := NewWebhookUseCase(logs, orders, &config.PaymentConfig{ServerKey: testServerKey}, logger.NewNop())
	return logs, orders, uc
}

func notification(orderCode, txStatus, fraudStatus string) []byte {
	n := paydto.Notification{
		OrderID:           orderCode,
		StatusCode:        "200",
		GrossAmount:       "220000.00",
		TransactionStatus: txStatus,
		FraudStatus:       fraudStatus,
	}
	n.SignatureKey = payment.ComputeSignature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	raw, _ := json.Marshal(n)
	return raw
}

func TestHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement marks the order paid", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusSettlement, ""))
		require.NoError(t, err)

		require.Len(t, orders.applied, 1)
		assert.Equal(t, "o-1", orders.applied[0].orderID)
		assert.Equal(t, model.PaymentStatusPaid, orders.applied[0].status)

		entry := logs.last()
		require.NotNil(t, entry)
		assert.True(t, entry.SignatureValid)
		assert.Equal(t, model.PaymentLogProcessed, entry.ProcessStatus)
		assert.Equal(t, "ORD-20260828-AB12CD34", entry.OrderCode)
	})

	t.Run("tampered signature never reaches the order", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()

		raw := notification("ORD-20260828-AB12CD34", payment.TxStatusSettlement, "")
		var n paydto.Notification
		require.NoError(t, json.Unmarshal(raw, &n))
		n.SignatureKey = "deadbeef"
		tampered, _ := json.Marshal(n)

		err := uc.HandleNotification(ctx, tampered)
		assert.ErrorIs(t, err, payment.ErrSignatureMismatch)

		assert.Empty(t, orders.applied)
		entry := logs.last()
		require.NotNil(t, entry)
		assert.False(t, entry.SignatureValid)
		assert.Equal(t, model.PaymentLogFailed, entry.ProcessStatus)
		require.NotNil(t, entry.ErrorDetail)
	})

	t.Run("malformed payload is still audited", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, []byte(`{"order_id": `))
		assert.ErrorIs(t, err, payment.ErrMalformedPayload)

		assert.Empty(t, orders.applied)
		entry := logs.last()
		require.NotNil(t, entry)
		assert.Equal(t, model.PaymentLogFailed, entry.ProcessStatus)
		assert.Equal(t, []byte(`{"order_id": `), entry.RawPayload)
	})

	t.Run("unknown order code propagates for gateway retry", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, notification("ORD-UNKNOWN", payment.TxStatusSettlement, ""))
		assert.ErrorIs(t, err, order.ErrOrderNotFound)

		assert.Empty(t, orders.applied)
		assert.Equal(t, model.PaymentLogFailed, logs.last().ProcessStatus)
	})

	t.Run("pending notification applies nothing", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusPending, ""))
		require.NoError(t, err)

		assert.Empty(t, orders.applied)
		assert.Equal(t, model.PaymentLogProcessed, logs.last().ProcessStatus)
	})

	t.Run("capture waits for fraud review", func(t *testing.T) {
		_, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusCapture, "challenge"))
		require.NoError(t, err)
		assert.Empty(t, orders.applied)

		err = uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusCapture, payment.FraudStatusAccept))
		require.NoError(t, err)
		require.Len(t, orders.applied, 1)
		assert.Equal(t, model.PaymentStatusPaid, orders.applied[0].status)
	})

	t.Run("expire maps to expired", func(t *testing.T) {
		_, orders, uc := newWebhookFixture()

		err := uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusExpire, ""))
		require.NoError(t, err)
		require.Len(t, orders.applied, 1)
		assert.Equal(t, model.PaymentStatusExpired, orders.applied[0].status)
	})

	t.Run("rejected transition is recorded and surfaced", func(t *testing.T) {
		logs, orders, uc := newWebhookFixture()
		orders.applyErr = &order.IllegalTransitionError{Field: "payment_status", From: "paid", To: "expired"}

		err := uc.HandleNotification(ctx, notification("ORD-20260828-AB12CD34", payment.TxStatusExpire, ""))
		require.Error(t, err)
		assert.True(t, order.IsIllegalTransition(err))
		assert.Equal(t, model.PaymentLogFailed, logs.last().ProcessStatus)
	})
}
