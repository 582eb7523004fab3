package postgres

import (
	"context"
	"fmt"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL.
// Las filas son inmutables; las devoluciones entran como montos negativos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago (o devolución, con monto negativo).
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, sale_id, shift_id, business_id, method, amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, payment.ShiftID, payment.BusinessID,
		payment.Method, payment.Amount, payment.CreatedAt, payment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListBySale devuelve los pagos de una venta en orden de aplicación.
func (r *PaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, shift_id, business_id, method, amount, created_at, created_by
		FROM payments WHERE sale_id = $1 ORDER BY created_at`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.ShiftID, &p.BusinessID, &p.Method, &p.Amount, &p.CreatedAt, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CashTotalsByShift acumula el efectivo del turno en una sola consulta:
// ventas (filas positivas) y devoluciones (valor absoluto de las negativas).
func (r *PaymentRepo) CashTotalsByShift(shiftID string) (*repository.CashShiftTotals, error) {
	var totals repository.CashShiftTotals
	err := r.q.QueryRow(context.Background(), `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COALESCE(SUM(-amount) FILTER (WHERE amount < 0), 0)
		FROM payments
		WHERE shift_id = $1 AND method = 'cash'`,
		shiftID,
	).Scan(&totals.CashSales, &totals.CashRefunds)
	if err != nil {
		return nil, fmt.Errorf("cash totals by shift: %w", err)
	}
	return &totals, nil
}
