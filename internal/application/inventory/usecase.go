// Package inventory implementa el libro de movimientos de inventario.
// El stock nunca se almacena como contador mutable: siempre es la suma
// derivada de los movimientos del producto.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// UseCase registra movimientos de forma transaccional con bloqueo de la fila
// del producto (SELECT FOR UPDATE) para serializar las escrituras por producto.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
	authorizer   Authorizer
	auditor      Auditor
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.InventoryMovementRepository,
	authorizer Authorizer,
	auditor Auditor,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		authorizer:   authorizer,
		auditor:      auditor,
	}
}

// MovementInput entrada para registrar un movimiento manual.
// Convención de signos: entrada/devolucion y salida/merma se entregan en
// positivo (el tipo define el signo almacenado); ajuste conserva el signo
// dado y no puede ser cero.
type MovementInput struct {
	BusinessID string
	UserID     string
	ProductID  string
	Type       string
	Quantity   decimal.Decimal
	Reason     string
	Reference  string
}

// RegisterMovement valida, autoriza (inventory.adjust) y persiste el
// movimiento dentro de una transacción. Los movimientos de salida no pueden
// dejar el stock derivado en negativo.
func (uc *UseCase) RegisterMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	if err := uc.authorizer.RequirePermission(ctx, in.UserID, entity.PermInventoryAdjust, in.BusinessID); err != nil {
		return nil, err
	}

	signed, err := normalizeQuantity(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != in.BusinessID {
		return nil, domain.ErrForbidden
	}

	mov := &entity.InventoryMovement{
		ID:         uuid.New().String(),
		BusinessID: in.BusinessID,
		ProductID:  in.ProductID,
		Type:       in.Type,
		Quantity:   signed,
		Reason:     in.Reason,
		Reference:  in.Reference,
		CreatedAt:  time.Now(),
		CreatedBy:  in.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return uc.AppendMovementInTx(movRepo, productRepo, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   in.BusinessID,
		UserID:       in.UserID,
		Action:       "inventory.movement",
		ResourceType: "product",
		ResourceID:   in.ProductID,
		Details:      fmt.Sprintf("%s %s (%s)", in.Type, signed, in.Reason),
	})
	return mov, nil
}

// AppendMovementInTx agrega un movimiento usando los repositorios del caller
// (misma transacción). Bloquea la fila del producto para serializar los
// movimientos y verifica que el stock derivado no quede negativo.
// Implementa el puerto sales.InventoryWriter: el motor de ventas lo usa para
// descargar y compensar inventario dentro de sus propias transacciones.
func (uc *UseCase) AppendMovementInTx(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	mov *entity.InventoryMovement,
) error {
	if _, err := productRepo.GetForUpdate(mov.ProductID); err != nil {
		return err
	}
	if mov.Quantity.LessThan(decimal.Zero) {
		current, err := movRepo.SumByProduct(mov.ProductID)
		if err != nil {
			return err
		}
		if current.Add(mov.Quantity).LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
	}
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	return movRepo.Create(mov)
}

// normalizeQuantity aplica la convención de signos según el tipo.
func normalizeQuantity(movementType string, qty decimal.Decimal) (decimal.Decimal, error) {
	if !entity.ValidMovementType(movementType) {
		return decimal.Zero, domain.NewValidationError(fmt.Sprintf("tipo de movimiento inválido: %q", movementType))
	}
	switch movementType {
	case entity.MovementEntrada, entity.MovementDevolucion:
		if !qty.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.NewValidationError("la cantidad debe ser positiva para " + movementType)
		}
		return qty, nil
	case entity.MovementSalida, entity.MovementMerma:
		if !qty.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.NewValidationError("la cantidad debe ser positiva para " + movementType)
		}
		return qty.Neg(), nil
	default: // ajuste
		if qty.IsZero() {
			return decimal.Zero, domain.NewValidationError("la cantidad de un ajuste no puede ser cero")
		}
		return qty, nil
	}
}

// StockFromMovements devuelve el stock vigente de un producto: la suma con
// signo de todos sus movimientos. Nunca lo afectan cambios de costo/precio.
func (uc *UseCase) StockFromMovements(ctx context.Context, businessID, productID string) (decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return decimal.Zero, domain.ErrForbidden
	}
	return uc.movementRepo.SumByProduct(productID)
}

// ListMovements lista los movimientos de un producto (más recientes primero).
func (uc *UseCase) ListMovements(ctx context.Context, businessID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return uc.movementRepo.ListByProduct(productID, from, to, limit, offset)
}

// LowStock devuelve los productos del negocio cuyo stock derivado está por
// debajo de su nivel mínimo.
func (uc *UseCase) LowStock(ctx context.Context, businessID string) ([]dto.LowStockItem, error) {
	products, err := uc.productRepo.ListByBusiness(businessID, 1000, 0)
	if err != nil {
		return nil, err
	}
	var items []dto.LowStockItem
	for _, p := range products {
		if p.MinStockLevel.IsZero() {
			continue
		}
		stock, err := uc.movementRepo.SumByProduct(p.ID)
		if err != nil {
			return nil, err
		}
		if stock.LessThan(p.MinStockLevel) {
			items = append(items, dto.LowStockItem{
				ProductID:     p.ID,
				Name:          p.Name,
				Barcode:       p.Barcode,
				Stock:         stock,
				MinStockLevel: p.MinStockLevel,
			})
		}
	}
	return items, nil
}
