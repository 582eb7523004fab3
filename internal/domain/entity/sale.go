package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta: pending → completed → {cancelled | refunded}.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
	SaleRefunded  = "refunded"
)

// Sale pertenece a exactamente un turno. La identidad fiscal
// (BusinessID, Series, Folio) es única.
type Sale struct {
	ID            string
	BusinessID    string
	ShiftID       string
	UserID        string
	CustomerID    string // vacío en ventas anónimas
	Series        string
	Folio         string
	Status        string
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	RefundedTotal decimal.Decimal // acumulado de devoluciones aplicadas
	CreatedAt     time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	RefundedAt    *time.Time
	UpdatedAt     time.Time
}

// SaleItem congela los hechos económicos de la línea al momento de crear la
// venta: cambios posteriores al Product jamás alteran ventas históricas.
type SaleItem struct {
	ID            string
	SaleID        string
	ProductID     string
	Quantity      decimal.Decimal
	CostAtSale    decimal.Decimal
	PriceAtSale   decimal.Decimal
	TaxTypeAtSale string
	TaxRateAtSale decimal.Decimal
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
}

// FormatFolio formatea un consecutivo fiscal con cero-padding a 6 dígitos.
func FormatFolio(n int64) string {
	return fmt.Sprintf("%06d", n)
}
