package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// CashShiftRepository define el puerto de persistencia para CashShift.
// FindOpenByUser soporta el invariante de exclusividad: un usuario no puede
// tener más de un turno abierto.
type CashShiftRepository interface {
	Create(shift *entity.CashShift) error
	GetByID(id string) (*entity.CashShift, error)
	GetForUpdate(id string) (*entity.CashShift, error)
	FindOpenByUser(userID string) (*entity.CashShift, error)
	Update(shift *entity.CashShift) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.CashShift, error)
}
