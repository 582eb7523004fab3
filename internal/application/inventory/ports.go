package inventory

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Authorizer es el oráculo de permisos visto desde este paquete.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, permission, businessID string) error
}

// Auditor es el sumidero de auditoría (best-effort, nunca falla al caller).
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}
