package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Payment es un pago aplicado a una venta. Una venta completa puede tener
// varios; las devoluciones se registran como filas con Amount negativo.
// El cambio entregado al cliente no se persiste como asiento.
type Payment struct {
	ID         string
	SaleID     string
	ShiftID    string
	BusinessID string
	Method     string
	Amount     decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
}

// ValidPaymentMethod valida el método.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}
