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

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste un nuevo negocio.
func (r *BusinessRepo) Create(business *entity.Business) error {
	query := `
		INSERT INTO businesses (id, name, tax_id, address, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		business.ID, business.Name, business.TaxID, business.Address,
		business.Phone, business.Email, business.IsActive, business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	return r.getOne(`SELECT id, name, tax_id, address, phone, email, is_active, created_at, updated_at
		FROM businesses WHERE id = $1`, id)
}

// GetByTaxID obtiene un negocio por su identificación fiscal.
func (r *BusinessRepo) GetByTaxID(taxID string) (*entity.Business, error) {
	return r.getOne(`SELECT id, name, tax_id, address, phone, email, is_active, created_at, updated_at
		FROM businesses WHERE tax_id = $1`, taxID)
}

func (r *BusinessRepo) getOne(query, arg string) (*entity.Business, error) {
	var b entity.Business
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&b.ID, &b.Name, &b.TaxID, &b.Address, &b.Phone, &b.Email, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// Update actualiza los datos del negocio.
func (r *BusinessRepo) Update(business *entity.Business) error {
	query := `
		UPDATE businesses SET name = $2, tax_id = $3, address = $4, phone = $5, email = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		business.ID, business.Name, business.TaxID, business.Address,
		business.Phone, business.Email, business.IsActive, business.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	return nil
}
