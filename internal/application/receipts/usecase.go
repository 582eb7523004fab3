// Package receipts genera el ticket de venta en PDF.
package receipts

import (
	"context"
	"fmt"

	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// ReceiptLine línea del ticket ya enriquecida con el nombre del producto.
type ReceiptLine struct {
	entity.SaleItem
	ProductName string
}

// PDFGenerator puerto de generación del documento.
type PDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		business *entity.Business,
		lines []ReceiptLine,
		payments []*entity.Payment,
	) ([]byte, error)
}

// UseCase arma los datos del ticket y delega la generación.
type UseCase struct {
	saleRepo     repository.SaleRepository
	businessRepo repository.BusinessRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	generator    PDFGenerator
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	saleRepo repository.SaleRepository,
	businessRepo repository.BusinessRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		saleRepo:     saleRepo,
		businessRepo: businessRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF genera el ticket de una venta cobrada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si la venta no pertenece al negocio del token.
//   - domain.ErrInvalidState     si la venta sigue pendiente (sin cobrar no hay ticket).
func (uc *UseCase) DownloadReceiptPDF(ctx context.Context, businessID, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.BusinessID != businessID {
		return nil, "", domain.ErrForbidden
	}
	if sale.Status == entity.SalePending {
		return nil, "", domain.ErrInvalidState
	}

	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil || business == nil {
		return nil, "", fmt.Errorf("receipt: obtener negocio: %w", err)
	}

	items, err := uc.saleRepo.GetItemsBySale(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener líneas: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		name := "Producto " + it.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(it.ProductID); pErr == nil && product != nil {
			name = product.Name
		}
		lines = append(lines, ReceiptLine{SaleItem: *it, ProductName: name})
	}

	payments, err := uc.paymentRepo.ListBySale(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener pagos: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, business, lines, payments)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("ticket_%s-%s.pdf", sale.Series, sale.Folio)
	return pdfBytes, filename, nil
}
