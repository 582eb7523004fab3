package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// CashRegisterRepository define el puerto de persistencia para CashRegister.
type CashRegisterRepository interface {
	Create(register *entity.CashRegister) error
	GetByID(id string) (*entity.CashRegister, error)
	ListByBusiness(businessID string) ([]*entity.CashRegister, error)
}
