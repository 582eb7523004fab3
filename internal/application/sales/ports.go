package sales

import (
	"context"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye todos los
// repositorios que una operación de venta puede tocar. O se confirma la
// secuencia completa (venta, líneas, folios, movimientos, pagos, cliente) o
// nada de ella es observable.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		folioRepo repository.FolioRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// Authorizer es el oráculo de permisos visto desde este paquete.
type Authorizer interface {
	RequirePermission(ctx context.Context, userID, permission, businessID string) error
}

// PINVerifier valida el PIN de re-autorización para cancelaciones y
// devoluciones de ventas ya cobradas.
type PINVerifier interface {
	VerifyPIN(ctx context.Context, userID, pin string) error
}

// InventoryWriter agrega movimientos de inventario usando los repositorios del
// caller (misma transacción). Si retorna error (ej: ErrInsufficientStock) el
// caller debe hacer rollback.
type InventoryWriter interface {
	AppendMovementInTx(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		mov *entity.InventoryMovement,
	) error
}

// Auditor es el sumidero de auditoría.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}
