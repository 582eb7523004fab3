// Package sales implementa el motor de ventas: creación con congelamiento de
// hechos económicos, cobro, cancelación y devolución con reverso de
// inventario. Máquina de estados por venta:
//
//	pending --ProcessPayment--> completed
//	pending --CancelSale------> cancelled
//	completed --CancelSale----> cancelled  (PIN + sales.cancel)
//	completed --RefundSale----> refunded   (PIN + sales.refund, devolución total)
package sales

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
	"github.com/jmoralesdev/punto-venta-api/internal/domain/tax"
)

// DefaultSeries serie fiscal usada cuando el caller no indica una.
const DefaultSeries = "A"

// UseCase motor de ventas.
type UseCase struct {
	txRunner     TxRunner
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	shiftRepo    repository.CashShiftRepository
	customerRepo repository.CustomerRepository
	inventory    InventoryWriter
	authorizer   Authorizer
	pins         PINVerifier
	auditor      Auditor
}

// NewUseCase construye el motor de ventas.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	shiftRepo repository.CashShiftRepository,
	customerRepo repository.CustomerRepository,
	inventory InventoryWriter,
	authorizer Authorizer,
	pins PINVerifier,
	auditor Auditor,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		shiftRepo:    shiftRepo,
		customerRepo: customerRepo,
		inventory:    inventory,
		authorizer:   authorizer,
		pins:         pins,
		auditor:      auditor,
	}
}

// CreateSale crea una venta en estado pending: calcula subtotal/impuestos/
// total con la configuración fiscal VIGENTE de cada producto, asigna folio
// consecutivo y congela costo/precio/impuesto por línea. Requiere sales.create
// y que el cajero tenga un turno abierto. Todo en una sola transacción.
func (uc *UseCase) CreateSale(ctx context.Context, businessID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermSalesCreate, businessID); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("la venta debe tener al menos una línea")
	}
	if in.Discount.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el descuento no puede ser negativo")
	}

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

	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.BusinessID != businessID {
			return nil, domain.ErrForbidden
		}
	}

	// Validar líneas y cargar productos (solo lectura, fuera de la tx).
	productsByID := make(map[string]*entity.Product, len(in.Lines))
	var violations []string
	for i, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			violations = append(violations, fmt.Sprintf("línea %d: producto y cantidad positiva obligatorios", i+1))
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.BusinessID != businessID {
			return nil, domain.ErrForbidden
		}
		productsByID[line.ProductID] = product
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	// Totales con la configuración fiscal vigente de cada producto.
	var subtotal, taxTotal decimal.Decimal
	for _, line := range in.Lines {
		product := productsByID[line.ProductID]
		lineSubtotal := line.Quantity.Mul(product.Price)
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(tax.Calculate(lineSubtotal, product.TaxType, product.TaxRate))
	}
	total := subtotal.Add(taxTotal).Sub(in.Discount)
	if total.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el descuento no puede superar el total de la venta")
	}

	series := in.Series
	if series == "" {
		series = DefaultSeries
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		ShiftID:    shift.ID,
		UserID:     userID,
		CustomerID: in.CustomerID,
		Series:     series,
		Status:     entity.SalePending,
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		Discount:   in.Discount,
		Total:      total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var items []*entity.SaleItem

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.PaymentRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
		folioRepo repository.FolioRepository,
		_ repository.CustomerRepository,
	) error {
		folio, err := folioRepo.Next(businessID, series)
		if err != nil {
			return err
		}
		sale.Folio = entity.FormatFolio(folio)
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		// Congela los hechos económicos de cada línea en este instante.
		for _, line := range in.Lines {
			product := productsByID[line.ProductID]
			lineSubtotal := line.Quantity.Mul(product.Price)
			item := &entity.SaleItem{
				ID:            uuid.New().String(),
				SaleID:        sale.ID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				CostAtSale:    product.Cost,
				PriceAtSale:   product.Price,
				TaxTypeAtSale: product.TaxType,
				TaxRateAtSale: product.TaxRate,
				TaxAmount:     tax.Calculate(lineSubtotal, product.TaxType, product.TaxRate),
				LineTotal:     lineSubtotal,
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "sales.create",
		ResourceType: "sale",
		ResourceID:   sale.ID,
		Details:      "folio " + series + "-" + sale.Folio,
	})
	return toSaleResponse(sale, items), nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, businessID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.saleRepo.GetItemsBySale(saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// ListSales lista ventas del negocio, más recientes primero.
func (uc *UseCase) ListSales(ctx context.Context, businessID string, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByBusiness(businessID, limit, offset)
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		BusinessID:    sale.BusinessID,
		ShiftID:       sale.ShiftID,
		CustomerID:    sale.CustomerID,
		Series:        sale.Series,
		Folio:         sale.Folio,
		Status:        sale.Status,
		Subtotal:      sale.Subtotal,
		TaxTotal:      sale.TaxTotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		RefundedTotal: sale.RefundedTotal,
		CreatedAt:     sale.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			PriceAtSale:   it.PriceAtSale,
			TaxTypeAtSale: it.TaxTypeAtSale,
			TaxRateAtSale: it.TaxRateAtSale,
			TaxAmount:     it.TaxAmount,
			LineTotal:     it.LineTotal,
		})
	}
	return resp
}
