package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// ApplyPurchase incrementa los agregados de compra de forma atómica; los
// contadores nunca se recalculan con un scan.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	ApplyPurchase(customerID string, amount decimal.Decimal, when time.Time) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Customer, error)
}
