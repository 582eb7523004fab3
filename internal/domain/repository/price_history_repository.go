package repository

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// PriceHistoryRepository define el puerto para el historial de precios
// (append-only).
type PriceHistoryRepository interface {
	Create(history *entity.PriceHistory) error
	ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error)
}
