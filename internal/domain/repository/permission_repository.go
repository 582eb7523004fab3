package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// PermissionRepository define el puerto para concesiones explícitas de permiso.
// Solo hay altas y bajas de concesiones: el modelo no tiene denegaciones.
type PermissionRepository interface {
	Grant(assignment *entity.PermissionAssignment) error
	Revoke(businessID, userID, permission string) error
	ListByUserAndPermission(userID, permission string) ([]*entity.PermissionAssignment, error)
	ListByUser(userID string) ([]*entity.PermissionAssignment, error)
}
