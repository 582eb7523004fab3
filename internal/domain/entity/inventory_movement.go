package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementEntrada    = "entrada"    // compra/recepción (+)
	MovementSalida     = "salida"     // venta (−)
	MovementAjuste     = "ajuste"     // corrección manual (±)
	MovementMerma      = "merma"      // pérdida/encogimiento (−)
	MovementDevolucion = "devolucion" // devolución/restock (+)
)

// InventoryMovement es un hecho inmutable del libro de inventario. El stock
// vigente de un producto es SIEMPRE la suma de las cantidades con signo de sus
// movimientos; nunca se edita ni borra un movimiento para "corregir" stock —
// se agrega uno compensatorio.
type InventoryMovement struct {
	ID         string
	BusinessID string
	ProductID  string
	Type       string
	Quantity   decimal.Decimal // con signo: entrada/devolucion +, salida/merma −
	Reason     string
	Reference  string // ID de la venta que lo originó, si aplica
	CreatedAt  time.Time
	CreatedBy  string
}

// Inbound indica si el tipo de movimiento suma stock.
func Inbound(movementType string) bool {
	return movementType == MovementEntrada || movementType == MovementDevolucion
}

// ValidMovementType valida el tipo.
func ValidMovementType(t string) bool {
	switch t {
	case MovementEntrada, MovementSalida, MovementAjuste, MovementMerma, MovementDevolucion:
		return true
	}
	return false
}
