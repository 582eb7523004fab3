package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	TaxType       string          `json:"tax_type"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// UpdateProductRequest edición de datos no económicos del producto.
// Cost/Price solo cambian a través del motor de precios.
type UpdateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Barcode       string          `json:"barcode"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// PriceChangeRequest cambio de costo/precio vía motor de precios.
// Cost/Price nulos significan "sin cambio".
type PriceChangeRequest struct {
	Cost          *decimal.Decimal `json:"cost"`
	Price         *decimal.Decimal `json:"price"`
	Reason        string           `json:"reason"`
	EffectiveDate *time.Time       `json:"effective_date"`
}

// ProductResponse producto con su stock derivado.
type ProductResponse struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"business_id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	TaxType       string          `json:"tax_type"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Stock         decimal.Decimal `json:"stock"`
	IsActive      bool            `json:"is_active"`
}

// PriceHistoryResponse un registro del historial de precios.
type PriceHistoryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	OldCost       decimal.Decimal `json:"old_cost"`
	NewCost       decimal.Decimal `json:"new_cost"`
	OldPrice      decimal.Decimal `json:"old_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	Reason        string          `json:"reason"`
	ChangedBy     string          `json:"changed_by"`
	EffectiveDate time.Time       `json:"effective_date"`
}
