package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hanifmaliki/shopcore/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) getByField(ctx context.Context, field, value string) (*model.Cart, error) {
	var cart model.Cart
	query := fmt.Sprintf(`SELECT * FROM carts WHERE %s = $1`, field)
	err := r.DB.GetContext(ctx, &cart, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *PGRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	return r.getByField(ctx, "user_id", userID)
}

func (r *PGRepository) GetBySession(ctx context.Context, sessionID string) (*model.Cart, error) {
	return r.getByField(ctx, "session_id", sessionID)
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Cart, error) {
	return r.getByField(ctx, "id", id)
}

func (r *PGRepository) loadItems(ctx context.Context, cart *model.Cart) error {
	return r.DB.SelectContext(ctx, &cart.Items,
		`SELECT * FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, cart.ID)
}

func (r *PGRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
        INSERT INTO carts (id, user_id, session_id, created_at, updated_at)
        VALUES (:id, :user_id, :session_id, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, cart)
	return err
}

func (r *PGRepository) GetItemByID(ctx context.Context, itemID string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) InsertItem(ctx context.Context, item *model.CartItem) error {
	query := `
        INSERT INTO cart_items (
            id, cart_id, product_id, variant_id, product_name, sku,
            quantity, price, weight_grams, created_at, updated_at
        )
        VALUES (
            :id, :cart_id, :product_id, :variant_id, :product_name, :sku,
            :quantity, :price, :weight_grams, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) UpdateItemQuantity(ctx context.Context, itemID string, qty int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`, itemID, qty)
	return err
}

func (r *PGRepository) DeleteItem(ctx context.Context, itemID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	return err
}

func (r *PGRepository) ClearItems(ctx context.Context, cartID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *PGRepository) DeleteCart(ctx context.Context, cartID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}
