package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// knownPermissions catálogo cerrado: conceder un permiso fuera de esta lista
// es un error de entrada, no una concesión silenciosa.
var knownPermissions = map[string]bool{
	entity.PermSalesCreate:         true,
	entity.PermSalesCancel:         true,
	entity.PermSalesRefund:         true,
	entity.PermProductsCreate:      true,
	entity.PermProductsUpdate:      true,
	entity.PermProductsAdjustPrice: true,
	entity.PermProductsDelete:      true,
	entity.PermInventoryAdjust:     true,
	entity.PermInventoryView:       true,
	entity.PermShiftsOpen:          true,
	entity.PermShiftsClose:         true,
	entity.PermReportsView:         true,
	entity.PermUsersCreate:         true,
	entity.PermUsersUpdate:         true,
	entity.PermCustomersManage:     true,
	entity.PermRegistersManage:     true,
	entity.PermAuditView:           true,
}

// PermissionUseCase administra las concesiones explícitas. El modelo es solo
// aditivo: revocar una concesión deja al usuario con los permisos por defecto
// de su tipo, nunca por debajo de ellos.
type PermissionUseCase struct {
	permissionRepo repository.PermissionRepository
	userRepo       repository.UserRepository
	authorizer     Authorizer
	auditor        Auditor
}

// NewPermissionUseCase construye el caso de uso.
func NewPermissionUseCase(
	permissionRepo repository.PermissionRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	auditor Auditor,
) *PermissionUseCase {
	return &PermissionUseCase{
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		authorizer:     authorizer,
		auditor:        auditor,
	}
}

// Grant concede un permiso explícito a un usuario del negocio. Requiere
// users.update. Idempotente a efectos prácticos: conceder dos veces no cambia
// el resultado del oráculo.
func (uc *PermissionUseCase) Grant(ctx context.Context, businessID, grantorID, targetUserID, permission string) error {
	if err := uc.authorizer.RequirePermission(ctx, grantorID, entity.PermUsersUpdate, businessID); err != nil {
		return err
	}
	if !knownPermissions[permission] {
		return domain.NewValidationError("permiso desconocido: " + permission)
	}
	target, err := uc.userRepo.GetByID(targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return domain.ErrUserNotFound
	}
	if target.BusinessID != businessID {
		return domain.ErrForbidden
	}

	assignment := &entity.PermissionAssignment{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		UserID:     targetUserID,
		Permission: permission,
		GrantedBy:  grantorID,
		CreatedAt:  time.Now(),
	}
	if err := uc.permissionRepo.Grant(assignment); err != nil {
		return err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       grantorID,
		Action:       "permissions.grant",
		ResourceType: "user",
		ResourceID:   targetUserID,
		NewValue:     permission,
	})
	return nil
}

// Revoke retira una concesión explícita. Requiere users.update. Los permisos
// por defecto del tipo de usuario no se pueden revocar: no existen como filas.
func (uc *PermissionUseCase) Revoke(ctx context.Context, businessID, grantorID, targetUserID, permission string) error {
	if err := uc.authorizer.RequirePermission(ctx, grantorID, entity.PermUsersUpdate, businessID); err != nil {
		return err
	}
	if !knownPermissions[permission] {
		return domain.NewValidationError("permiso desconocido: " + permission)
	}
	if err := uc.permissionRepo.Revoke(businessID, targetUserID, permission); err != nil {
		return err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       grantorID,
		Action:       "permissions.revoke",
		ResourceType: "user",
		ResourceID:   targetUserID,
		OldValue:     permission,
	})
	return nil
}

// ListByUser devuelve las concesiones explícitas de un usuario del negocio.
func (uc *PermissionUseCase) ListByUser(ctx context.Context, businessID, callerID, targetUserID string) ([]*entity.PermissionAssignment, error) {
	if err := uc.authorizer.RequirePermission(ctx, callerID, entity.PermUsersUpdate, businessID); err != nil {
		return nil, err
	}
	target, err := uc.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return uc.permissionRepo.ListByUser(targetUserID)
}
