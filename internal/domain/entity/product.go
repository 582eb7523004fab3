package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Cost/Price/TaxType/TaxRate son
// los valores VIGENTES; el historial de cambios vive en PriceHistory y las
// ventas congelan sus propios valores en SaleItem.
// Invariante: Barcode único dentro del negocio.
type Product struct {
	ID            string
	BusinessID    string
	Barcode       string
	Name          string
	Description   string
	Cost          decimal.Decimal
	Price         decimal.Decimal
	TaxType       string          // IVA, ISR, EXENTO, TASA_CERO
	TaxRate       decimal.Decimal // porcentaje 0..100
	MinStockLevel decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
