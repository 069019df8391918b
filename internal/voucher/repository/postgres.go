package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/voucher"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	var v model.Voucher
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM vouchers WHERE code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, voucher.ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) CountPaidUsagesByCustomer(ctx context.Context, voucherID, userID string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
        SELECT count(*)
        FROM voucher_usages vu
        JOIN orders o ON o.id = vu.order_id
        WHERE vu.voucher_id = $1 AND vu.user_id = $2 AND o.payment_status = 'paid'
    `, voucherID, userID)
	return count, err
}
