package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, business_id, name, COALESCE(email, ''), COALESCE(phone, ''), total_purchases, purchase_count, current_balance, credit_limit, last_purchase_date, created_at, updated_at`

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, business_id, name, email, phone, total_purchases, purchase_count, current_balance, credit_limit, last_purchase_date, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.BusinessID, customer.Name, customer.Email, customer.Phone,
		customer.TotalPurchases, customer.PurchaseCount, customer.CurrentBalance,
		customer.CreditLimit, customer.LastPurchaseDate, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(context.Background(),
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.TotalPurchases,
		&c.PurchaseCount, &c.CurrentBalance, &c.CreditLimit, &c.LastPurchaseDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos de contacto y el límite de crédito. Los
// agregados de compra solo cambian vía ApplyPurchase.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = NULLIF($3, ''), phone = NULLIF($4, ''), credit_limit = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.CreditLimit, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// ApplyPurchase incrementa los agregados de compra en una sola sentencia
// atómica: nunca lee-modifica-escribe desde la aplicación.
func (r *CustomerRepo) ApplyPurchase(customerID string, amount decimal.Decimal, when time.Time) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE customers SET
			total_purchases = total_purchases + $2,
			purchase_count = purchase_count + 1,
			current_balance = current_balance + $2,
			last_purchase_date = $3,
			updated_at = $3
		WHERE id = $1`,
		customerID, amount, when,
	)
	if err != nil {
		return fmt.Errorf("apply purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByBusiness lista los clientes del negocio.
func (r *CustomerRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+customerColumns+` FROM customers WHERE business_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.Phone, &c.TotalPurchases,
			&c.PurchaseCount, &c.CurrentBalance, &c.CreditLimit, &c.LastPurchaseDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
