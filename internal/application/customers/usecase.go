// Package customers administra el padrón de clientes y sus agregados de
// compra. Los agregados los alimenta el motor de ventas al completar cada
// venta; aquí solo se leen y se administra el padrón.
package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// Authorizer es el oráculo de permisos visto desde este paquete.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, permission, businessID string) error
}

// Auditor es el sumidero de auditoría.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// UseCase padrón de clientes.
type UseCase struct {
	customerRepo repository.CustomerRepository
	authorizer   Authorizer
	auditor      Auditor
}

// NewUseCase construye el caso de uso.
func NewUseCase(customerRepo repository.CustomerRepository, authorizer Authorizer, auditor Auditor) *UseCase {
	return &UseCase{customerRepo: customerRepo, authorizer: authorizer, auditor: auditor}
}

// CreateCustomer da de alta un cliente. Requiere customers.manage.
func (uc *UseCase) CreateCustomer(ctx context.Context, businessID, userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermCustomersManage, businessID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("el nombre del cliente es obligatorio")
	}
	if in.CreditLimit.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el límite de crédito no puede ser negativo")
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		CreditLimit: in.CreditLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "customers.create",
		ResourceType: "customer",
		ResourceID:   customer.ID,
		Details:      customer.Name,
	})
	return toCustomerResponse(customer), nil
}

// UpdateCustomer actualiza los datos de contacto y el límite de crédito.
// Los agregados de compra no son editables por esta vía.
func (uc *UseCase) UpdateCustomer(ctx context.Context, businessID, userID, customerID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermCustomersManage, businessID); err != nil {
		return nil, err
	}
	customer, err := uc.getOwned(businessID, customerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("el nombre del cliente es obligatorio")
	}
	if in.CreditLimit.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el límite de crédito no puede ser negativo")
	}

	customer.Name = strings.TrimSpace(in.Name)
	customer.Email = strings.TrimSpace(in.Email)
	customer.Phone = strings.TrimSpace(in.Phone)
	customer.CreditLimit = in.CreditLimit
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "customers.update",
		ResourceType: "customer",
		ResourceID:   customer.ID,
	})
	return toCustomerResponse(customer), nil
}

// GetCustomer obtiene un cliente con sus agregados.
func (uc *UseCase) GetCustomer(ctx context.Context, businessID, customerID string) (*dto.CustomerResponse, error) {
	customer, err := uc.getOwned(businessID, customerID)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers lista los clientes del negocio.
func (uc *UseCase) ListCustomers(ctx context.Context, businessID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	customers, err := uc.customerRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (uc *UseCase) getOwned(businessID, customerID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:               c.ID,
		BusinessID:       c.BusinessID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		TotalPurchases:   c.TotalPurchases,
		PurchaseCount:    c.PurchaseCount,
		CurrentBalance:   c.CurrentBalance,
		CreditLimit:      c.CreditLimit,
		LastPurchaseDate: c.LastPurchaseDate,
	}
}
