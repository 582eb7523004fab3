package shifts

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// TxRunner ejecuta el cierre/conciliación de un turno en una sola transacción:
// el bloqueo del turno y la lectura de los acumulados de pagos deben ver el
// mismo estado.
type TxRunner interface {
	RunShift(ctx context.Context, fn func(
		shiftRepo repository.CashShiftRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// Authorizer es el oráculo de permisos visto desde este paquete.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, permission, businessID string) error
}

// Auditor es el sumidero de auditoría.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}
