package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hanifmaliki/shopcore/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	query := `
        INSERT INTO payment_logs (
            id, order_code, transaction_status, status_code, gross_amount,
            signature, raw_payload, signature_valid, process_status, error_detail,
            created_at, updated_at
        )
        VALUES (
            :id, :order_code, :transaction_status, :status_code, :gross_amount,
            :signature, :raw_payload, :signature_valid, :process_status, :error_detail,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, log)
	return err
}

// UpdateOutcome only touches the processing-outcome fields; the captured
// payload itself is immutable.
func (r *PGRepository) UpdateOutcome(ctx context.Context, log *model.PaymentLog) error {
	query := `
        UPDATE payment_logs
        SET signature_valid = :signature_valid,
            process_status = :process_status,
            error_detail = :error_detail,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, log)
	return err
}

func (r *PGRepository) ListByOrderCode(ctx context.Context, orderCode string) ([]model.PaymentLog, error) {
	var logs []model.PaymentLog
	err := r.DB.SelectContext(ctx, &logs,
		`SELECT * FROM payment_logs WHERE order_code = $1 ORDER BY created_at DESC`, orderCode)
	return logs, err
}
