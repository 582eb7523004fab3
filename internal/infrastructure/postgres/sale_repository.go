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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, business_id, shift_id, user_id, COALESCE(customer_id, ''), series, folio, status, subtotal, tax_total, discount, total, refunded_total, created_at, completed_at, cancelled_at, refunded_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL. La
// unicidad de (business_id, series, folio) la respalda un índice único.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, business_id, shift_id, user_id, customer_id, series, folio, status, subtotal, tax_total, discount, total, refunded_total, created_at, completed_at, cancelled_at, refunded_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.BusinessID, sale.ShiftID, sale.UserID, sale.CustomerID,
		sale.Series, sale.Folio, sale.Status, sale.Subtotal, sale.TaxTotal,
		sale.Discount, sale.Total, sale.RefundedTotal,
		sale.CreatedAt, sale.CompletedAt, sale.CancelledAt, sale.RefundedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea (inmutable una vez creada).
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, cost_at_sale, price_at_sale, tax_type_at_sale, tax_rate_at_sale, tax_amount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity,
		item.CostAtSale, item.PriceAtSale, item.TaxTypeAtSale, item.TaxRateAtSale,
		item.TaxAmount, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta bloqueando su fila (SELECT FOR UPDATE) para
// serializar cobro, cancelación y devolución.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getOne(query string, args ...any) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.BusinessID, &s.ShiftID, &s.UserID, &s.CustomerID,
		&s.Series, &s.Folio, &s.Status, &s.Subtotal, &s.TaxTotal,
		&s.Discount, &s.Total, &s.RefundedTotal,
		&s.CreatedAt, &s.CompletedAt, &s.CancelledAt, &s.RefundedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItemsBySale devuelve las líneas de una venta.
func (r *SaleRepo) GetItemsBySale(saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, product_id, quantity, cost_at_sale, price_at_sale, tax_type_at_sale, tax_rate_at_sale, tax_amount, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity,
			&it.CostAtSale, &it.PriceAtSale, &it.TaxTypeAtSale, &it.TaxRateAtSale,
			&it.TaxAmount, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update actualiza el estado y los acumulados de la venta. Las líneas y la
// identidad fiscal (series, folio) nunca cambian.
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET status = $2, refunded_total = $3, completed_at = $4, cancelled_at = $5, refunded_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Status, sale.RefundedTotal,
		sale.CompletedAt, sale.CancelledAt, sale.RefundedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// ListByShift lista las ventas de un turno.
func (r *SaleRepo) ListByShift(shiftID string) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE shift_id = $1 ORDER BY created_at`,
		shiftID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales by shift: %w", err)
	}
	return scanSales(rows)
}

// ListByBusiness lista las ventas del negocio, más recientes primero.
func (r *SaleRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return scanSales(rows)
}

func scanSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.ShiftID, &s.UserID, &s.CustomerID,
			&s.Series, &s.Folio, &s.Status, &s.Subtotal, &s.TaxTotal,
			&s.Discount, &s.Total, &s.RefundedTotal,
			&s.CreatedAt, &s.CompletedAt, &s.CancelledAt, &s.RefundedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
