package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest alta manual de movimiento de inventario.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"` // entrada, salida, ajuste, merma, devolucion
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference"`
}

// MovementResponse un movimiento del libro.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedBy string          `json:"created_by"`
}

// LowStockItem producto cuyo stock derivado está bajo el mínimo.
type LowStockItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Stock         decimal.Decimal `json:"stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}
