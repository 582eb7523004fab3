package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
// serializar los movimientos de inventario que lo afectan.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	GetByBusinessAndBarcode(businessID, barcode string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdatePricing(productID string, cost, price decimal.Decimal) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
