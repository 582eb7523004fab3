package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo implementación del puerto CashRegisterRepository sobre PostgreSQL.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

// Create persiste una caja física.
func (r *CashRegisterRepo) Create(register *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (id, business_id, name, location, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		register.ID, register.BusinessID, register.Name, register.Location, register.IsActive, register.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

// GetByID obtiene una caja por ID.
func (r *CashRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	var reg entity.CashRegister
	err := r.q.QueryRow(context.Background(),
		`SELECT id, business_id, name, location, is_active, created_at FROM cash_registers WHERE id = $1`, id,
	).Scan(&reg.ID, &reg.BusinessID, &reg.Name, &reg.Location, &reg.IsActive, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return &reg, nil
}

// ListByBusiness lista las cajas del negocio.
func (r *CashRegisterRepo) ListByBusiness(businessID string) ([]*entity.CashRegister, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, business_id, name, location, is_active, created_at FROM cash_registers WHERE business_id = $1 ORDER BY name`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		var reg entity.CashRegister
		if err := rows.Scan(&reg.ID, &reg.BusinessID, &reg.Name, &reg.Location, &reg.IsActive, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, &reg)
	}
	return list, rows.Err()
}
