package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanifmaliki/shopcore/config"
	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/order"
	"github.com/hanifmaliki/shopcore/internal/payment"
	"github.com/hanifmaliki/shopcore/internal/payment/dto"
	"github.com/hanifmaliki/shopcore/pkg/logger"
	"github.com/hanifmaliki/shopcore/pkg/metrics"
)

type webhookUseCase struct {
	logs      payment.LogRepository
	orders    order.UseCase
	serverKey string
	logger    logger.ZapLogger
}

func NewWebhookUseCase(logs payment.LogRepository, orders order.UseCase, cfg *config.PaymentConfig, log logger.ZapLogger) payment.UseCase {
	return &webhookUseCase{
		logs:      logs,
		orders:    orders,
		serverKey: cfg.ServerKey,
		logger:    log,
	}
}

func (uc *webhookUseCase) HandleNotification(ctx context.Context, rawPayload []byte) error {
	now := time.Now()
	entry := &model.PaymentLog{
		ID:            uuid.New().String(),
		RawPayload:    rawPayload,
		ProcessStatus: model.PaymentLogReceived,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var notif dto.Notification
	parseErr := json.Unmarshal(rawPayload, &notif)
	if parseErr == nil {
		entry.OrderCode = notif.OrderID
		entry.TransactionStatus = notif.TransactionStatus
		entry.StatusCode = notif.StatusCode
		entry.GrossAmount = notif.GrossAmount
		entry.Signature = notif.SignatureKey
	}

	// Audit first: the entry exists before any validation runs, so even a
	// crash mid-processing leaves a trace of the delivery.
	if err := uc.logs.Create(ctx, entry); err != nil {
		return err
	}

	if parseErr != nil {
		uc.failEntry(ctx, entry, payment.ErrMalformedPayload.Error())
		metrics.WebhooksProcessed.WithLabelValues("malformed").Inc()
		return payment.ErrMalformedPayload
	}

	if !payment.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, uc.serverKey, notif.SignatureKey) {
		uc.logger.Warn("rejected payment notification with bad signature",
			zap.String("order_code", notif.OrderID))
		uc.failEntry(ctx, entry, payment.ErrSignatureMismatch.Error())
		metrics.WebhooksProcessed.WithLabelValues("bad_signature").Inc()
		return payment.ErrSignatureMismatch
	}
	entry.SignatureValid = true

	o, err := uc.orders.GetByCode(ctx, notif.OrderID)
	if err != nil {
		// Not found is recoverable: the gateway retries and either the
		// order commit is still in flight or alerting catches a genuine
		// integration gap.
		uc.failEntry(ctx, entry, err.Error())
		metrics.WebhooksProcessed.WithLabelValues("order_not_found").Inc()
		return err
	}

	mapped, apply := payment.MapTransactionStatus(notif.TransactionStatus, notif.FraudStatus)
	if !apply {
		entry.ProcessStatus = model.PaymentLogProcessed
		entry.UpdatedAt = time.Now()
		if err := uc.logs.UpdateOutcome(ctx, entry); err != nil {
			uc.logger.Error("failed to update payment log", zap.Error(err))
		}
		metrics.WebhooksProcessed.WithLabelValues("noop").Inc()
		return nil
	}

	// The settlement engine owns the transition; inventory confirm/release
	// runs exactly once there even when the gateway redelivers.
	if err := uc.orders.ApplyPaymentStatus(ctx, o.ID, mapped); err != nil {
		uc.failEntry(ctx, entry, err.Error())
		metrics.WebhooksProcessed.WithLabelValues("transition_rejected").Inc()
		return err
	}

	entry.ProcessStatus = model.PaymentLogProcessed
	entry.UpdatedAt = time.Now()
	if err := uc.logs.UpdateOutcome(ctx, entry); err != nil {
		uc.logger.Error("failed to update payment log", zap.Error(err))
	}
	metrics.WebhooksProcessed.WithLabelValues("processed").Inc()

	return nil
}

func (uc *webhookUseCase) failEntry(ctx context.Context, entry *model.PaymentLog, detail string) {
	entry.ProcessStatus = model.PaymentLogFailed
	entry.ErrorDetail = &detail
	entry.UpdatedAt = time.Now()
	if err := uc.logs.UpdateOutcome(ctx, entry); err != nil {
		uc.logger.Error("failed to mark payment log as failed",
			zap.String("log_id", entry.ID), zap.Error(err))
	}
}
