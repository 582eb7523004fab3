package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// CancelSale cancela una venta. Una venta pending solo cambia de estado (no
// hay inventario que revertir). Una venta completed exige sales.cancel Y un
// PIN válido (defensa contra reversos no autorizados en caja); el reverso de
// stock se hace con movimientos de ajuste compensatorios que referencian la
// venta — los movimientos de salida originales jamás se editan.
// Ambas verificaciones ocurren ANTES de tocar inventario: si fallan, no se
// crea ningún movimiento.
func (uc *UseCase) CancelSale(ctx context.Context, businessID, userID, saleID string, in dto.CancelSaleRequest) error {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.BusinessID != businessID {
		return domain.ErrForbidden
	}

	switch sale.Status {
	case entity.SalePending:
		if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermSalesCreate, businessID); err != nil {
			return err
		}
	case entity.SaleCompleted:
		if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermSalesCancel, businessID); err != nil {
			return err
		}
		if err := uc.pins.VerifyPIN(ctx, userID, in.PIN); err != nil {
			return err
		}
	default:
		return domain.ErrInvalidState
	}

	now := time.Now()
	wasCompleted := sale.Status == entity.SaleCompleted

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.PaymentRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.FolioRepository,
		_ repository.CustomerRepository,
	) error {
		locked, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != sale.Status {
			return domain.ErrInvalidState
		}

		if wasCompleted {
			items, err := saleRepo.GetItemsBySale(saleID)
			if err != nil {
				return err
			}
			for _, item := range items {
				mov := &entity.InventoryMovement{
					BusinessID: businessID,
					ProductID:  item.ProductID,
					Type:       entity.MovementAjuste,
					Quantity:   item.Quantity,
					Reason:     "cancelación de venta",
					Reference:  locked.ID,
					CreatedAt:  now,
					CreatedBy:  userID,
				}
				if err := uc.inventory.AppendMovementInTx(movRepo, productRepo, mov); err != nil {
					return err
				}
			}
		}

		locked.Status = entity.SaleCancelled
		locked.CancelledAt = &now
		locked.UpdatedAt = now
		return saleRepo.Update(locked)
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "sales.cancel",
		ResourceType: "sale",
		ResourceID:   saleID,
		Details:      in.Reason,
		OldValue:     sale.Status,
		NewValue:     entity.SaleCancelled,
	})
	return nil
}

// RefundSale aplica una devolución a una venta completada. Requiere
// sales.refund y PIN. El monto debe estar en (0, total − ya devuelto].
// Se registra una fila de pago negativa en el turno abierto del operador.
// Devolución total (acumulada): reingresa al inventario lo que falte por
// devolver de cada línea y la venta pasa a refunded. Devolución parcial con
// lista de líneas: reingresa esas cantidades; sin lista: no reingresa nada.
// Lo ya reingresado se deriva del propio libro de movimientos (devoluciones
// que referencian la venta), nunca de un contador.
func (uc *UseCase) RefundSale(ctx context.Context, businessID, userID, saleID string, in dto.RefundSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermSalesRefund, businessID); err != nil {
		return nil, err
	}
	if err := uc.pins.VerifyPIN(ctx, userID, in.PIN); err != nil {
		return nil, err
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("el monto a devolver debe ser positivo")
	}

	// El efectivo devuelto sale del cajón del operador: exige turno abierto.
	shift, err := uc.shiftRepo.FindOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNoOpenShift
	}
	if shift.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var updated *entity.Sale
	var items []*entity.SaleItem

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.FolioRepository,
		_ repository.CustomerRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.BusinessID != businessID {
			return domain.ErrForbidden
		}
		if sale.Status != entity.SaleCompleted {
			return domain.ErrInvalidState
		}
		remaining := sale.Total.Sub(sale.RefundedTotal)
		if in.Amount.GreaterThan(remaining) {
			return domain.NewValidationError("el monto a devolver supera lo pendiente de la venta")
		}

		items, err = saleRepo.GetItemsBySale(saleID)
		if err != nil {
			return err
		}
		itemsByID := make(map[string]*entity.SaleItem, len(items))
		for _, it := range items {
			itemsByID[it.ID] = it
		}

		restocked, err := restockedByProduct(movRepo, saleID)
		if err != nil {
			return err
		}

		newRefunded := sale.RefundedTotal.Add(in.Amount)
		fullRefund := newRefunded.Equal(sale.Total)

		// Cantidades a reingresar por línea.
		type restockLine struct {
			productID string
			quantity  decimal.Decimal
		}
		var toRestock []restockLine
		if fullRefund {
			for _, it := range items {
				pending := it.Quantity.Sub(restocked[it.ProductID])
				restocked[it.ProductID] = it.Quantity
				if pending.GreaterThan(decimal.Zero) {
					toRestock = append(toRestock, restockLine{it.ProductID, pending})
				}
			}
		} else {
			for _, line := range in.Items {
				it, ok := itemsByID[line.SaleItemID]
				if !ok {
					return domain.ErrNotFound
				}
				if !line.Quantity.GreaterThan(decimal.Zero) {
					return domain.NewValidationError("la cantidad a reingresar debe ser positiva")
				}
				pending := it.Quantity.Sub(restocked[it.ProductID])
				if line.Quantity.GreaterThan(pending) {
					return domain.NewValidationError("la cantidad a reingresar supera lo vendido pendiente de devolución")
				}
				restocked[it.ProductID] = restocked[it.ProductID].Add(line.Quantity)
				toRestock = append(toRestock, restockLine{it.ProductID, line.Quantity})
			}
		}

		for _, r := range toRestock {
			mov := &entity.InventoryMovement{
				BusinessID: businessID,
				ProductID:  r.productID,
				Type:       entity.MovementDevolucion,
				Quantity:   r.quantity,
				Reason:     "devolución de venta",
				Reference:  sale.ID,
				CreatedAt:  now,
				CreatedBy:  userID,
			}
			if err := uc.inventory.AppendMovementInTx(movRepo, productRepo, mov); err != nil {
				return err
			}
		}

		// Fila de pago negativa: el reembolso contra el turno del operador.
		refundPayment := &entity.Payment{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			ShiftID:    shift.ID,
			BusinessID: businessID,
			Method:     entity.PaymentCash,
			Amount:     in.Amount.Neg(),
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := paymentRepo.Create(refundPayment); err != nil {
			return err
		}

		sale.RefundedTotal = newRefunded
		if fullRefund {
			sale.Status = entity.SaleRefunded
			sale.RefundedAt = &now
		}
		sale.UpdatedAt = now
		updated = sale
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "sales.refund",
		ResourceType: "sale",
		ResourceID:   saleID,
		Details:      in.Reason,
		NewValue:     "devuelto " + in.Amount.String(),
	})
	return toSaleResponse(updated, items), nil
}

// restockedByProduct deriva del libro de movimientos cuánto se ha reingresado
// ya por producto para una venta (devoluciones que la referencian).
func restockedByProduct(movRepo repository.InventoryMovementRepository, saleID string) (map[string]decimal.Decimal, error) {
	movements, err := movRepo.ListByReference(saleID)
	if err != nil {
		return nil, err
	}
	restocked := make(map[string]decimal.Decimal)
	for _, m := range movements {
		if m.Type == entity.MovementDevolucion {
			restocked[m.ProductID] = restocked[m.ProductID].Add(m.Quantity)
		}
	}
	return restocked, nil
}
