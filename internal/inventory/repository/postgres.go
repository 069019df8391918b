package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hanifmaliki/shopcore/internal/inventory/dto"
	"github.com/hanifmaliki/shopcore/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// variantClause appends the variant predicate. NULL variant means the
// product-level record, and NULL never matches '=' in SQL.
func variantClause(query string, args []interface{}, variantID *string) (string, []interface{}) {
	if variantID != nil && *variantID != "" {
		args = append(args, *variantID)
		return query + fmt.Sprintf(" AND variant_id = $%d", len(args)), args
	}
	return query + " AND variant_id IS NULL", args
}

func (r *PGRepository) GetByProduct(ctx context.Context, productID string, variantID *string) (*model.InventoryRecord, error) {
	query := `SELECT * FROM inventory WHERE product_id = $1`
	args := []interface{}{productID}
	query, args = variantClause(query, args, variantID)

	var rec model.InventoryRecord
	err := r.DB.GetContext(ctx, &rec, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) BatchGetByProducts(ctx context.Context, productIDs []string) ([]model.InventoryRecord, error) {
	if len(productIDs) == 0 {
		return []model.InventoryRecord{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM inventory WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.InventoryRecord
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryRecord, int, error) {
	var items []model.InventoryRecord
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.VariantID != nil {
		if *f.VariantID == "" {
			conditions = append(conditions, "variant_id IS NULL")
		} else {
			conditions = append(conditions, "variant_id = :variant_id")
			args["variant_id"] = *f.VariantID
		}
	}
	if f.LowStock {
		conditions = append(conditions, "quantity - reserved_quantity <= minimum_stock AND minimum_stock > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) CreateOrUpdate(ctx context.Context, rec *model.InventoryRecord) error {
	query := `
        INSERT INTO inventory (
            id, product_id, variant_id, quantity, reserved_quantity, minimum_stock, updated_at
        )
        VALUES (
            :id, :product_id, :variant_id, :quantity, :reserved_quantity, :minimum_stock, :updated_at
        )
        ON CONFLICT (product_id, variant_id)
        DO UPDATE SET
            quantity = EXCLUDED.quantity,
            reserved_quantity = EXCLUDED.reserved_quantity,
            minimum_stock = EXCLUDED.minimum_stock,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, rec)
	return err
}

// Reserve is a single conditional update: the availability check and the
// increment happen in one statement, so concurrent reservations serialize on
// the row and cannot oversell.
func (r *PGRepository) Reserve(ctx context.Context, productID string, variantID *string, qty int) (bool, error) {
	query := `
        UPDATE inventory
        SET reserved_quantity = reserved_quantity + $2, updated_at = NOW()
        WHERE product_id = $1 AND quantity - reserved_quantity >= $2
    `
	args := []interface{}{productID, qty}
	query, args = variantClause(query, args, variantID)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Release clamps at zero so replayed rollbacks stay harmless.
func (r *PGRepository) Release(ctx context.Context, productID string, variantID *string, qty int) error {
	query := `
        UPDATE inventory
        SET reserved_quantity = GREATEST(reserved_quantity - $2, 0), updated_at = NOW()
        WHERE product_id = $1
    `
	args := []interface{}{productID, qty}
	query, args = variantClause(query, args, variantID)

	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepository) ConfirmReservation(ctx context.Context, productID string, variantID *string, qty int, reason, referenceID string) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Lock the row for the read-check-write. Held only for this transaction,
	// never across external calls.
	query := `SELECT * FROM inventory WHERE product_id = $1`
	args := []interface{}{productID}
	query, args = variantClause(query, args, variantID)
	query += " FOR UPDATE"

	var rec model.InventoryRecord
	if err := tx.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("confirm reservation for product %s: no inventory record", productID)
		}
		return 0, err
	}

	actual := qty
	if rec.ReservedQuantity < actual {
		actual = rec.ReservedQuantity
	}
	if actual == 0 {
		return 0, tx.Commit()
	}

	updateQuery := `
        UPDATE inventory
        SET quantity = quantity - $2, reserved_quantity = reserved_quantity - $2, updated_at = NOW()
        WHERE product_id = $1
    `
	updateArgs := []interface{}{productID, actual}
	updateQuery, updateArgs = variantClause(updateQuery, updateArgs, variantID)
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return 0, fmt.Errorf("failed to confirm reservation: %w", err)
	}

	refType := model.ReferenceTypeOrder
	refID := referenceID
	movement := &model.InventoryMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		VariantID:        variantID,
		MovementType:     model.MovementTypeOut,
		QuantityDelta:    -actual,
		PreviousQuantity: rec.Quantity,
		Reason:           reason,
		ReferenceType:    &refType,
		ReferenceID:      &refID,
		CreatedAt:        time.Now(),
	}
	if err := insertMovement(ctx, tx, movement); err != nil {
		return 0, fmt.Errorf("failed to log movement: %w", err)
	}

	return actual, tx.Commit()
}

func (r *PGRepository) AdjustWithMovement(ctx context.Context, rec *model.InventoryRecord, movement *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsertQuery := `
        INSERT INTO inventory (
            id, product_id, variant_id, quantity, reserved_quantity, minimum_stock, updated_at
        )
        VALUES (
            :id, :product_id, :variant_id, :quantity, :reserved_quantity, :minimum_stock, :updated_at
        )
        ON CONFLICT (product_id, variant_id)
        DO UPDATE SET
            quantity = EXCLUDED.quantity,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := tx.NamedExecContext(ctx, upsertQuery, rec); err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}

	if err := insertMovement(ctx, tx, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMovement(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMovement(ctx context.Context, tx *sqlx.Tx, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, product_id, variant_id, movement_type, quantity_delta,
            previous_quantity, reason, reference_type, reference_id, created_at
        )
        VALUES (
            :id, :product_id, :variant_id, :movement_type, :quantity_delta,
            :previous_quantity, :reason, :reference_type, :reference_id, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
