package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// RegisterUseCase administra las cajas físicas del negocio.
type RegisterUseCase struct {
	registerRepo repository.CashRegisterRepository
	authorizer   Authorizer
	auditor      Auditor
}

// NewRegisterUseCase construye el caso de uso.
func NewRegisterUseCase(registerRepo repository.CashRegisterRepository, authorizer Authorizer, auditor Auditor) *RegisterUseCase {
	return &RegisterUseCase{registerRepo: registerRepo, authorizer: authorizer, auditor: auditor}
}

// Create da de alta una caja física. Requiere registers.manage.
func (uc *RegisterUseCase) Create(ctx context.Context, businessID, userID string, in dto.CreateRegisterRequest) (*entity.CashRegister, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermRegistersManage, businessID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("el nombre de la caja es obligatorio")
	}

	register := &entity.CashRegister{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       strings.TrimSpace(in.Name),
		Location:   in.Location,
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if err := uc.registerRepo.Create(register); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "registers.create",
		ResourceType: "cash_register",
		ResourceID:   register.ID,
		Details:      register.Name,
	})
	return register, nil
}

// GetByID obtiene una caja del negocio.
func (uc *RegisterUseCase) GetByID(ctx context.Context, businessID, registerID string) (*entity.CashRegister, error) {
	register, err := uc.registerRepo.GetByID(registerID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	if register.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return register, nil
}

// List lista las cajas del negocio.
func (uc *RegisterUseCase) List(ctx context.Context, businessID string) ([]*entity.CashRegister, error) {
	return uc.registerRepo.ListByBusiness(businessID)
}
