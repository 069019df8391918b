package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hanifmaliki/shopcore/internal/model"
	"github.com/hanifmaliki/shopcore/internal/order"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) getByField(ctx context.Context, field, value string) (*model.Order, error) {
	var o model.Order
	query := fmt.Sprintf(`SELECT * FROM orders WHERE %s = $1`, field)
	err := r.DB.GetContext(ctx, &o, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) loadItems(ctx context.Context, o *model.Order) error {
	return r.DB.SelectContext(ctx, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1`, o.ID)
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getByField(ctx, "id", id)
}

func (r *PGRepository) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	return r.getByField(ctx, "code", code)
}

func (r *PGRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	return r.getByField(ctx, "idempotency_key", key)
}

func (r *PGRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	var orders []model.Order
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, count, nil
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order, shipment *model.Shipment, usage *model.VoucherUsage) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO orders (
            id, code, idempotency_key, user_id, destination_city, courier, courier_service,
            subtotal, shipping_cost, discount_amount, total, voucher_id, voucher_code,
            payment_status, shipping_status, payment_ref, payment_url, paid_at,
            created_at, updated_at
        )
        VALUES (
            :id, :code, :idempotency_key, :user_id, :destination_city, :courier, :courier_service,
            :subtotal, :shipping_cost, :discount_amount, :total, :voucher_id, :voucher_code,
            :payment_status, :shipping_status, :payment_ref, :payment_url, :paid_at,
            :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return order.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (
            id, order_id, product_id, variant_id, product_name, sku, price, quantity, weight_grams
        )
        VALUES (
            :id, :order_id, :product_id, :variant_id, :product_name, :sku, :price, :quantity, :weight_grams
        )
    `
	for i := range o.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	shipmentQuery := `
        INSERT INTO shipments (
            id, order_id, courier, courier_service, cost, tracking_number, status, created_at, updated_at
        )
        VALUES (
            :id, :order_id, :courier, :courier_service, :cost, :tracking_number, :status, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, shipmentQuery, shipment); err != nil {
		return fmt.Errorf("failed to insert shipment: %w", err)
	}

	if usage != nil {
		usageQuery := `
            INSERT INTO voucher_usages (id, voucher_id, order_id, user_id, discount_amount, created_at)
            VALUES (:id, :voucher_id, :order_id, :user_id, :discount_amount, :created_at)
        `
		if _, err := tx.NamedExecContext(ctx, usageQuery, usage); err != nil {
			return fmt.Errorf("failed to record voucher usage: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE vouchers SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1`,
			usage.VoucherID); err != nil {
			return fmt.Errorf("failed to increment voucher usage: %w", err)
		}
	}

	return tx.Commit()
}

// UpdatePaymentStatus only writes when the row still holds `from`, so a
// status transition is applied at most once no matter how many webhook
// deliveries race.
func (r *PGRepository) UpdatePaymentStatus(ctx context.Context, id string, from, to model.PaymentStatus, paidAt *time.Time) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
        UPDATE orders
        SET payment_status = $3, paid_at = COALESCE($4, paid_at), updated_at = NOW()
        WHERE id = $1 AND payment_status = $2
    `, id, from, to, paidAt)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepository) UpdateShippingStatus(ctx context.Context, id string, from, to model.ShippingStatus) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        UPDATE orders
        SET shipping_status = $3, updated_at = NOW()
        WHERE id = $1 AND shipping_status = $2
    `, id, from, to)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	// Keep the shipment record in step with the order.
	if _, err := tx.ExecContext(ctx, `
        UPDATE shipments SET status = $2, updated_at = NOW() WHERE order_id = $1
    `, id, to); err != nil {
		return false, err
	}

	return true, tx.Commit()
}
