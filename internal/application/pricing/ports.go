package pricing

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// TxRunner ejecuta el cambio de precio y su registro histórico en una sola
// transacción.
type TxRunner interface {
	RunPricing(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
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
