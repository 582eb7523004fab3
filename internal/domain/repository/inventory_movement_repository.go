package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto para el libro de movimientos.
// El libro es append-only: no existen Update ni Delete. SumByProduct es la
// única fuente de verdad del stock vigente.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	SumByProduct(productID string) (decimal.Decimal, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByReference(reference string) ([]*entity.InventoryMovement, error)
}
