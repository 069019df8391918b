package payment

import (
	"context"

	"github.com/hanifmaliki/shopcore/internal/model"
)

// LogRepository persists the append-only webhook audit trail. Entries are
// created before any validation and only their processing outcome fields are
// updated afterwards.
type LogRepository interface {
	Create(ctx context.Context, log *model.PaymentLog) error
	UpdateOutcome(ctx context.Context, log *model.PaymentLog) error
	ListByOrderCode(ctx context.Context, orderCode string) ([]model.PaymentLog, error)
}
