package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// AuditRepository define el puerto para la bitácora de auditoría (append-only).
type AuditRepository interface {
	Create(log *entity.AuditLog) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.AuditLog, error)
}
