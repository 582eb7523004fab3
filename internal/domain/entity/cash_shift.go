package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un turno de caja: open → closed → reconciled.
const (
	ShiftOpen       = "open"
	ShiftClosed     = "closed"
	ShiftReconciled = "reconciled"
)

// CashShift es la sesión de trabajo de un cajero sobre una caja física, desde
// la apertura del cajón hasta el cierre y la conciliación.
// Invariante: un usuario no puede abrir un segundo turno mientras tenga uno
// abierto. Al cierre: ExpectedCash = OpeningCash + ventas en efectivo −
// devoluciones; Difference = ActualCash − ExpectedCash.
type CashShift struct {
	ID           string
	BusinessID   string
	RegisterID   string
	UserID       string
	Status       string
	OpeningCash  decimal.Decimal
	ExpectedCash decimal.Decimal
	ActualCash   decimal.Decimal
	Difference   decimal.Decimal
	Notes        string
	OpenedAt     time.Time
	ClosedAt     *time.Time
	ClosedBy     string
	ReconciledAt *time.Time
	ReconciledBy string
}
