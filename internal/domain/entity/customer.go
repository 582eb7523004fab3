package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer mantiene agregados de compra actualizados incrementalmente por
// cada venta completada; nunca se recalculan con un scan.
type Customer struct {
	ID               string
	BusinessID       string
	Name             string
	Email            string
	Phone            string
	TotalPurchases   decimal.Decimal
	PurchaseCount    int64
	CurrentBalance   decimal.Decimal
	CreditLimit      decimal.Decimal
	LastPurchaseDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
