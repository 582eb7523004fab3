package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory registra cada cambio de costo/precio de un producto.
// Los registros son inmutables: nunca se eliminan ni modifican.
type PriceHistory struct {
	ID            string
	BusinessID    string
	ProductID     string
	OldCost       decimal.Decimal
	NewCost       decimal.Decimal
	OldPrice      decimal.Decimal
	NewPrice      decimal.Decimal
	Reason        string
	ChangedBy     string
	EffectiveDate time.Time
	CreatedAt     time.Time
}
