package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest creación de venta (queda en pending hasta cobrar).
type CreateSaleRequest struct {
	Series     string            `json:"series"`
	CustomerID string            `json:"customer_id"`
	Discount   decimal.Decimal   `json:"discount"`
	Lines      []SaleLineRequest `json:"lines"`
}

// TenderRequest un pago ofrecido.
type TenderRequest struct {
	Method string          `json:"method"` // cash, card, transfer
	Amount decimal.Decimal `json:"amount"`
}

// ProcessPaymentRequest cobro de una venta pendiente.
type ProcessPaymentRequest struct {
	Payments []TenderRequest `json:"payments"`
}

// CancelSaleRequest cancelación; PIN obligatorio si la venta ya fue cobrada.
type CancelSaleRequest struct {
	PIN    string `json:"pin"`
	Reason string `json:"reason"`
}

// RefundLineRequest cantidad de una línea a reingresar al inventario en una
// devolución parcial.
type RefundLineRequest struct {
	SaleItemID string          `json:"sale_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// RefundSaleRequest devolución total o parcial.
type RefundSaleRequest struct {
	PIN    string              `json:"pin"`
	Amount decimal.Decimal     `json:"amount"`
	Reason string              `json:"reason"`
	Items  []RefundLineRequest `json:"items"`
}

// SaleItemResponse línea con sus hechos económicos congelados.
type SaleItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceAtSale   decimal.Decimal `json:"price_at_sale"`
	TaxTypeAtSale string          `json:"tax_type_at_sale"`
	TaxRateAtSale decimal.Decimal `json:"tax_rate_at_sale"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// SaleResponse venta completa.
type SaleResponse struct {
	ID            string             `json:"id"`
	BusinessID    string             `json:"business_id"`
	ShiftID       string             `json:"shift_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	Series        string             `json:"series"`
	Folio         string             `json:"folio"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	RefundedTotal decimal.Decimal    `json:"refunded_total"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}

// PaymentResponse resultado del cobro.
type PaymentResponse struct {
	SaleID    string          `json:"sale_id"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Change    decimal.Decimal `json:"change"`
}
