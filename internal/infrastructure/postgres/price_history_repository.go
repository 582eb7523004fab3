package postgres

import (
	"context"
	"fmt"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implementación del puerto PriceHistoryRepository sobre
// PostgreSQL (append-only).
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create persiste un registro de cambio de precio.
func (r *PriceHistoryRepo) Create(history *entity.PriceHistory) error {
	query := `
		INSERT INTO price_history (id, business_id, product_id, old_cost, new_cost, old_price, new_price, reason, changed_by, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		history.ID, history.BusinessID, history.ProductID,
		history.OldCost, history.NewCost, history.OldPrice, history.NewPrice,
		history.Reason, history.ChangedBy, history.EffectiveDate, history.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto, más reciente primero.
func (r *PriceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, business_id, product_id, old_cost, new_cost, old_price, new_price, reason, changed_by, effective_date, created_at
		FROM price_history WHERE product_id = $1 ORDER BY effective_date DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceHistory
	for rows.Next() {
		var h entity.PriceHistory
		if err := rows.Scan(&h.ID, &h.BusinessID, &h.ProductID, &h.OldCost, &h.NewCost,
			&h.OldPrice, &h.NewPrice, &h.Reason, &h.ChangedBy, &h.EffectiveDate, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
