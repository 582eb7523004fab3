package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// CashShiftTotals acumulados de efectivo de un turno, separados como los usa
// la conciliación: ventas (filas positivas) y devoluciones (valor absoluto de
// las filas negativas).
type CashShiftTotals struct {
	CashSales   decimal.Decimal
	CashRefunds decimal.Decimal
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListBySale(saleID string) ([]*entity.Payment, error)
	CashTotalsByShift(shiftID string) (*CashShiftTotals, error)
}
