// Package authz implementa el oráculo de autorización: resuelve si un usuario
// puede ejecutar una acción sobre los recursos de un negocio combinando
// concesiones explícitas con la tabla de permisos por defecto de su tipo.
package authz

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// Oracle resuelve permisos. Sin estado global: toda la información llega por
// parámetros y repositorios inyectados, así varias sesiones conviven aisladas.
type Oracle struct {
	userRepo       repository.UserRepository
	permissionRepo repository.PermissionRepository
}

// NewOracle construye el oráculo.
func NewOracle(userRepo repository.UserRepository, permissionRepo repository.PermissionRepository) *Oracle {
	return &Oracle{userRepo: userRepo, permissionRepo: permissionRepo}
}

// CheckPermission responde si el usuario puede ejecutar la acción.
// Orden de resolución:
//  1. Concesiones explícitas (userId, permiso); si businessID no es vacío,
//     la concesión debe pertenecer a ese negocio.
//  2. Tabla por defecto según el tipo del usuario (owner ⊇ admin ⊇ cashier).
//
// Usuarios inactivos nunca pasan. Los usuarios de otro negocio tampoco: la
// frontera de tenant se verifica antes que cualquier concesión.
func (o *Oracle) CheckPermission(ctx context.Context, userID, permission, businessID string) (bool, error) {
	user, err := o.userRepo.GetByID(userID)
	if err != nil {
		return false, err
	}
	if user == nil || !user.IsActive {
		return false, nil
	}
	if businessID != "" && user.BusinessID != businessID {
		return false, nil
	}

	assignments, err := o.permissionRepo.ListByUserAndPermission(userID, permission)
	if err != nil {
		return false, err
	}
	for _, a := range assignments {
		if businessID == "" || a.BusinessID == businessID {
			return true, nil
		}
	}

	return DefaultHas(user.Type, permission), nil
}

// RequirePermission como CheckPermission pero devuelve ErrPermissionDenied si
// el chequeo falla. Toda operación mutadora del sistema DEBE llamarlo antes de
// cambiar estado, con el permiso específico que corresponde a la acción.
func (o *Oracle) RequirePermission(ctx context.Context, userID, permission, businessID string) error {
	ok, err := o.CheckPermission(ctx, userID, permission, businessID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPermissionDenied
	}
	return nil
}
