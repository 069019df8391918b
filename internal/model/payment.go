package model

import "time"

// Processing states for inbound payment notifications.
const (
	PaymentLogReceived  = "received"
	PaymentLogProcessed = "processed"
	PaymentLogFailed    = "failed"
)

// PaymentLog is the append-only audit record of one inbound gateway
// notification. The raw payload is persisted before any validation so a
// notification is never silently lost.
type PaymentLog struct {
	ID                string    `db:"id"`
	OrderCode         string    `db:"order_code"`
	TransactionStatus string    `db:"transaction_status"`
	StatusCode        string    `db:"status_code"`
	GrossAmount       string    `db:"gross_amount"`
	Signature         string    `db:"signature"`
	RawPayload        []byte    `db:"raw_payload"`
	SignatureValid    bool      `db:"signature_valid"`
	ProcessStatus     string    `db:"process_status"`
	ErrorDetail       *string   `db:"error_detail"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
