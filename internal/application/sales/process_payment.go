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

// ProcessPayment cobra una venta pendiente. La suma de pagos debe cubrir el
// total (ErrInsufficientPayment si no); el excedente es el cambio y no se
// persiste como asiento. En una sola transacción: la venta pasa a completed,
// se descarga una salida de inventario por línea, se persiste una fila de
// pago por cada forma de pago y se actualizan los agregados del cliente si la
// venta lo tiene. Cualquier falla (ej. stock insuficiente) revierte todo.
func (uc *UseCase) ProcessPayment(ctx context.Context, businessID, userID, saleID string, in dto.ProcessPaymentRequest) (*dto.PaymentResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermSalesCreate, businessID); err != nil {
		return nil, err
	}
	if len(in.Payments) == 0 {
		return nil, domain.NewValidationError("se requiere al menos un pago")
	}

	var violations []string
	var totalPaid decimal.Decimal
	for _, p := range in.Payments {
		if !entity.ValidPaymentMethod(p.Method) {
			violations = append(violations, "método de pago inválido: "+p.Method)
		}
		if !p.Amount.GreaterThan(decimal.Zero) {
			violations = append(violations, "el monto de cada pago debe ser positivo")
		}
		totalPaid = totalPaid.Add(p.Amount)
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	now := time.Now()
	var change decimal.Decimal

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.FolioRepository,
		customerRepo repository.CustomerRepository,
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
		if sale.Status != entity.SalePending {
			return domain.ErrInvalidState
		}
		if totalPaid.LessThan(sale.Total) {
			return domain.ErrInsufficientPayment
		}
		change = totalPaid.Sub(sale.Total)

		// Salida de inventario por cada línea, referenciando la venta.
		items, err := saleRepo.GetItemsBySale(saleID)
		if err != nil {
			return err
		}
		for _, item := range items {
			mov := &entity.InventoryMovement{
				BusinessID: businessID,
				ProductID:  item.ProductID,
				Type:       entity.MovementSalida,
				Quantity:   item.Quantity.Neg(),
				Reason:     "venta",
				Reference:  sale.ID,
				CreatedAt:  now,
				CreatedBy:  userID,
			}
			if err := uc.inventory.AppendMovementInTx(movRepo, productRepo, mov); err != nil {
				return err
			}
		}

		for _, p := range in.Payments {
			payment := &entity.Payment{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				ShiftID:    sale.ShiftID,
				BusinessID: businessID,
				Method:     p.Method,
				Amount:     p.Amount,
				CreatedAt:  now,
				CreatedBy:  userID,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
		}

		sale.Status = entity.SaleCompleted
		sale.CompletedAt = &now
		sale.UpdatedAt = now
		if err := saleRepo.Update(sale); err != nil {
			return err
		}

		// Exactamente una actualización de agregados por venta completada con
		// cliente; nunca en ventas anónimas.
		if sale.CustomerID != "" {
			if err := customerRepo.ApplyPurchase(sale.CustomerID, sale.Total, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "sales.payment",
		ResourceType: "sale",
		ResourceID:   saleID,
		Details:      "pagado " + totalPaid.String() + ", cambio " + change.String(),
	})
	return &dto.PaymentResponse{SaleID: saleID, TotalPaid: totalPaid, Change: change}, nil
}
