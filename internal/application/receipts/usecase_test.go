package receipts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/receipts"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

const bizID = "biz-1"

// stubGenerator captura lo que recibe y regresa bytes fijos.
type stubGenerator struct {
	lines    []receipts.ReceiptLine
	payments []*entity.Payment
	err      error
}

func (g *stubGenerator) GenerateReceiptPDF(_ context.Context, _ *entity.Sale, _ *entity.Business, lines []receipts.ReceiptLine, payments []*entity.Payment) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lines = lines
	g.payments = payments
	return []byte("%PDF-stub"), nil
}

func setup(t *testing.T, gen receipts.PDFGenerator) (*receipts.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	require.NoError(t, store.Businesses.Create(&entity.Business{
		ID: bizID, Name: "Abarrotes La Esquina", TaxID: "ABC010101XYZ", IsActive: true,
	}))
	uc := receipts.NewUseCase(store.Sales, store.Businesses, store.Products, store.Payments, gen)
	return uc, store
}

func seedCompletedSale(t *testing.T, store *apptest.Store) *entity.Sale {
	t.Helper()
	now := time.Now()
	sale := &entity.Sale{
		ID: "venta-1", BusinessID: bizID, ShiftID: "turno-1", UserID: "cajero-1",
		Series: "A", Folio: entity.FormatFolio(1),
		Status: entity.SaleCompleted, Total: decimal.NewFromInt(116),
		CreatedAt: now, CompletedAt: &now,
	}
	require.NoError(t, store.Sales.Create(sale))
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "prod-1", BusinessID: bizID, Name: "Refresco 600ml", IsActive: true,
	}))
	require.NoError(t, store.Sales.CreateItem(&entity.SaleItem{
		ID: "item-1", SaleID: sale.ID, ProductID: "prod-1",
		Quantity: decimal.NewFromInt(1), PriceAtSale: decimal.NewFromInt(100),
		LineTotal: decimal.NewFromInt(116),
	}))
	require.NoError(t, store.Payments.Create(&entity.Payment{
		ID: "pago-1", SaleID: sale.ID, ShiftID: "turno-1", BusinessID: bizID,
		Method: entity.PaymentCash, Amount: decimal.NewFromInt(116),
	}))
	return sale
}

func TestDownloadReceiptPDF_VentaCobrada(t *testing.T) {
	gen := &stubGenerator{}
	uc, store := setup(t, gen)
	seedCompletedSale(t, store)

	pdf, filename, err := uc.DownloadReceiptPDF(context.Background(), bizID, "venta-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, "ticket_A-000001.pdf", filename)

	require.Len(t, gen.lines, 1)
	assert.Equal(t, "Refresco 600ml", gen.lines[0].ProductName, "la línea se enriquece con el nombre vigente")
	require.Len(t, gen.payments, 1)
}

func TestDownloadReceiptPDF_VentaPendiente(t *testing.T) {
	uc, store := setup(t, &stubGenerator{})
	sale := seedCompletedSale(t, store)
	sale.Status = entity.SalePending
	require.NoError(t, store.Sales.Update(sale))

	_, _, err := uc.DownloadReceiptPDF(context.Background(), bizID, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "sin cobrar no hay ticket")
}

func TestDownloadReceiptPDF_VentaInexistente(t *testing.T) {
	uc, _ := setup(t, &stubGenerator{})
	_, _, err := uc.DownloadReceiptPDF(context.Background(), bizID, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadReceiptPDF_VentaDeOtroNegocio(t *testing.T) {
	uc, store := setup(t, &stubGenerator{})
	seedCompletedSale(t, store)

	_, _, err := uc.DownloadReceiptPDF(context.Background(), "otro-negocio", "venta-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDownloadReceiptPDF_GeneradorFalla(t *testing.T) {
	genErr := errors.New("motor PDF caído")
	uc, store := setup(t, &stubGenerator{err: genErr})
	seedCompletedSale(t, store)

	_, _, err := uc.DownloadReceiptPDF(context.Background(), bizID, "venta-1")
	assert.ErrorIs(t, err, genErr)
}
