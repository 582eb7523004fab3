package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, business_id, product_id, type, quantity, reason, COALESCE(reference, ''), created_at, created_by`

// InventoryMovementRepo implementación del puerto sobre PostgreSQL. El libro
// es append-only: este adaptador no expone UPDATE ni DELETE.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, business_id, product_id, type, quantity, reason, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.BusinessID, movement.ProductID, movement.Type,
		movement.Quantity, movement.Reason, movement.Reference, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := r.q.QueryRow(context.Background(),
		`SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id,
	).Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.Reference, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory movement: %w", err)
	}
	return &m, nil
}

// SumByProduct devuelve la suma con signo de todos los movimientos del
// producto: el stock vigente.
func (r *InventoryMovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero,
// con filtro opcional de rango de fechas.
func (r *InventoryMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanMovements(rows)
}

// ListByReference lista los movimientos que referencian una venta (descargas,
// compensaciones y devoluciones).
func (r *InventoryMovementRepo) ListByReference(reference string) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+movementColumns+` FROM inventory_movements WHERE reference = $1 ORDER BY created_at`,
		reference,
	)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.Reference, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
