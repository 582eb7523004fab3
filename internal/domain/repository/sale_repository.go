package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Las líneas (SaleItem) son inmutables una vez creadas: congelan los hechos
// económicos del momento de la venta.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetForUpdate(id string) (*entity.Sale, error)
	GetItemsBySale(saleID string) ([]*entity.SaleItem, error)
	Update(sale *entity.Sale) error
	ListByShift(shiftID string) ([]*entity.Sale, error)
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Sale, error)
}
