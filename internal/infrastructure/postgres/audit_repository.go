package postgres

import (
	"context"
	"fmt"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre PostgreSQL
// (append-only, sin UPDATE ni DELETE).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada de auditoría.
func (r *AuditRepo) Create(log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, business_id, user_id, action, resource_type, resource_id, details, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.BusinessID, log.UserID, log.Action, log.ResourceType,
		log.ResourceID, log.Details, log.OldValue, log.NewValue, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByBusiness lista las entradas del negocio, más recientes primero.
func (r *AuditRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.AuditLog, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, business_id, user_id, action, resource_type, COALESCE(resource_id, ''), COALESCE(details, ''), COALESCE(old_value, ''), COALESCE(new_value, ''), created_at
		FROM audit_logs WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.UserID, &l.Action, &l.ResourceType,
			&l.ResourceID, &l.Details, &l.OldValue, &l.NewValue, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
