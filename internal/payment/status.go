package payment

import "github.com/hanifmaliki/shopcore/internal/model"

// Gateway transaction-status vocabulary.
const (
	TxStatusCapture    = "capture"
	TxStatusSettlement = "settlement"
	TxStatusPending    = "pending"
	TxStatusDeny       = "deny"
	TxStatusCancel     = "cancel"
	TxStatusExpire     = "expire"
	TxStatusFailure    = "failure"

	FraudStatusAccept = "accept"
)

// MapTransactionStatus translates the gateway's vocabulary into the internal
// payment state. apply=false means the notification is informational and no
// transition should run (e.g. still pending, or capture awaiting fraud
// review).
func MapTransactionStatus(transactionStatus, fraudStatus string) (status model.PaymentStatus, apply bool) {
	switch transactionStatus {
	case TxStatusSettlement:
		return model.PaymentStatusPaid, true
	case TxStatusCapture:
		if fraudStatus == FraudStatusAccept {
			return model.PaymentStatusPaid, true
		}
		return model.PaymentStatusPending, false
	case TxStatusPending:
		return model.PaymentStatusPending, false
	case TxStatusDeny, TxStatusCancel, TxStatusFailure:
		return model.PaymentStatusFailed, true
	case TxStatusExpire:
		return model.PaymentStatusExpired, true
	}
	return model.PaymentStatusPending, false
}
