package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/application/inventory"
	"github.com/jmoralesdev/punto-venta-api/internal/application/sales"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/tax"
)

const (
	bizID   = "biz-1"
	userID  = "cajero-1"
	shiftID = "turno-1"
	prodA   = "prod-a"
	prodB   = "prod-b"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	uc      *sales.UseCase
	store   *apptest.Store
	auditor *apptest.RecordingAuditor
	pins    *apptest.StubPINs
}

// setup arma el motor de ventas con catálogo, stock y un turno abierto:
//   - prodA: precio 100, IVA 16%, stock 10
//   - prodB: precio 50, EXENTO, stock 5
func setup(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	now := time.Now()

	require.NoError(t, store.Products.Create(&entity.Product{
		ID: prodA, BusinessID: bizID, Name: "Producto A",
		Cost: dec("60"), Price: dec("100"),
		TaxType: tax.TypeIVA, TaxRate: dec("16"),
		IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: prodB, BusinessID: bizID, Name: "Producto B",
		Cost: dec("20"), Price: dec("50"),
		TaxType: tax.TypeExento, TaxRate: decimal.Zero,
		IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, store.Movements.Create(&entity.InventoryMovement{
		ID: "seed-a", BusinessID: bizID, ProductID: prodA,
		Type: entity.MovementEntrada, Quantity: dec("10"), CreatedAt: now,
	}))
	require.NoError(t, store.Movements.Create(&entity.InventoryMovement{
		ID: "seed-b", BusinessID: bizID, ProductID: prodB,
		Type: entity.MovementEntrada, Quantity: dec("5"), CreatedAt: now,
	}))
	require.NoError(t, store.Shifts.Create(&entity.CashShift{
		ID: shiftID, BusinessID: bizID, RegisterID: "caja-1", UserID: userID,
		Status: entity.ShiftOpen, OpeningCash: dec("500"), OpenedAt: now,
	}))

	auditor := &apptest.RecordingAuditor{}
	pins := &apptest.StubPINs{}
	txRunner := &apptest.TxRunner{S: store}
	inventoryUC := inventory.NewUseCase(txRunner, store.Products, store.Movements, apptest.AllowAll{}, auditor)
	uc := sales.NewUseCase(
		txRunner, store.Sales, store.Products, store.Shifts, store.Customers,
		inventoryUC, apptest.AllowAll{}, pins, auditor,
	)
	return &fixture{uc: uc, store: store, auditor: auditor, pins: pins}
}

func (f *fixture) createSale(t *testing.T, lines ...dto.SaleLineRequest) *dto.SaleResponse {
	t.Helper()
	sale, err := f.uc.CreateSale(context.Background(), bizID, userID, dto.CreateSaleRequest{Lines: lines})
	require.NoError(t, err)
	return sale
}

func (f *fixture) paySale(t *testing.T, saleID string, amount string) *dto.PaymentResponse {
	t.Helper()
	resp, err := f.uc.ProcessPayment(context.Background(), bizID, userID, saleID, dto.ProcessPaymentRequest{
		Payments: []dto.TenderRequest{{Method: entity.PaymentCash, Amount: dec(amount)}},
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	s, err := f.store.Movements.SumByProduct(productID)
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación: totales, folio y congelamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_TotalesYFolio(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t,
		dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")}, // 200 + 32 IVA
		dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")}, // 50 exento
	)

	assert.Equal(t, entity.SalePending, sale.Status)
	assert.True(t, sale.Subtotal.Equal(dec("250")), "subtotal fue %s", sale.Subtotal)
	assert.True(t, sale.TaxTotal.Equal(dec("32")), "impuestos fueron %s", sale.TaxTotal)
	assert.True(t, sale.Total.Equal(dec("282")), "total fue %s", sale.Total)
	assert.Equal(t, "A", sale.Series, "serie por defecto")
	assert.Equal(t, "000001", sale.Folio, "folio cero-padded a 6 dígitos")
}

func TestCreateSale_FolioConsecutivoPorSerie(t *testing.T) {
	f := setup(t)
	first := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})
	second := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})
	assert.Equal(t, "000001", first.Folio)
	assert.Equal(t, "000002", second.Folio)

	otra, err := f.uc.CreateSale(context.Background(), bizID, userID, dto.CreateSaleRequest{
		Series: "B",
		Lines:  []dto.SaleLineRequest{{ProductID: prodB, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "000001", otra.Folio, "cada serie lleva su propio consecutivo")
}

// Un cambio de precio posterior no altera los hechos congelados de la venta.
func TestCreateSale_CongelaPrecioEImpuesto(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("1")})
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].PriceAtSale.Equal(dec("100")))
	assert.True(t, sale.Items[0].TaxRateAtSale.Equal(dec("16")))

	require.NoError(t, f.store.Products.UpdatePricing(prodA, dec("80"), dec("150")))

	reread, err := f.uc.GetSale(context.Background(), bizID, sale.ID)
	require.NoError(t, err)
	assert.True(t, reread.Items[0].PriceAtSale.Equal(dec("100")), "el precio congelado no cambia")
	assert.True(t, reread.Total.Equal(dec("116")), "el total congelado no cambia")
}

func TestCreateSale_SinTurnoAbierto(t *testing.T) {
	f := setup(t)
	_, err := f.uc.CreateSale(context.Background(), bizID, "sin-turno", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: prodA, Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

func TestCreateSale_SinLineas(t *testing.T) {
	f := setup(t)
	_, err := f.uc.CreateSale(context.Background(), bizID, userID, dto.CreateSaleRequest{})
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

func TestCreateSale_DescuentoMayorAlTotal(t *testing.T) {
	f := setup(t)
	_, err := f.uc.CreateSale(context.Background(), bizID, userID, dto.CreateSaleRequest{
		Discount: dec("1000"),
		Lines:    []dto.SaleLineRequest{{ProductID: prodB, Quantity: dec("1")}},
	})
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

// Crear la venta NO descarga inventario: eso ocurre al cobrar.
func TestCreateSale_NoTocaInventario(t *testing.T) {
	f := setup(t)
	f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("3")})
	assert.True(t, f.stock(t, prodA).Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestProcessPayment_CompletaYDescargaInventario(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})

	resp := f.paySale(t, sale.ID, "300")
	assert.True(t, resp.TotalPaid.Equal(dec("300")))
	assert.True(t, resp.Change.Equal(dec("68")), "300 - 232 = 68, fue %s", resp.Change)

	reread, err := f.uc.GetSale(context.Background(), bizID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, reread.Status)
	assert.True(t, f.stock(t, prodA).Equal(dec("8")), "10 - 2 vendidas")
}

func TestProcessPayment_PagoInsuficiente(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("1")}) // total 116

	_, err := f.uc.ProcessPayment(context.Background(), bizID, userID, sale.ID, dto.ProcessPaymentRequest{
		Payments: []dto.TenderRequest{{Method: entity.PaymentCash, Amount: dec("100")}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)

	reread, err := f.uc.GetSale(context.Background(), bizID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalePending, reread.Status, "el cobro fallido no cambia el estado")
	assert.True(t, f.stock(t, prodA).Equal(dec("10")), "ni toca inventario")
}

func TestProcessPayment_VariasFormasDePago(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("1")}) // total 116

	resp, err := f.uc.ProcessPayment(context.Background(), bizID, userID, sale.ID, dto.ProcessPaymentRequest{
		Payments: []dto.TenderRequest{
			{Method: entity.PaymentCard, Amount: dec("100")},
			{Method: entity.PaymentCash, Amount: dec("16")},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Change.IsZero())

	payments, err := f.store.Payments.ListBySale(sale.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2, "una fila de pago por forma de pago")
}

func TestProcessPayment_VentaYaCobrada(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})
	f.paySale(t, sale.ID, "50")

	_, err := f.uc.ProcessPayment(context.Background(), bizID, userID, sale.ID, dto.ProcessPaymentRequest{
		Payments: []dto.TenderRequest{{Method: entity.PaymentCash, Amount: dec("50")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestProcessPayment_ActualizaAgregadosDelCliente(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.store.Customers.Create(&entity.Customer{
		ID: "cliente-1", BusinessID: bizID, Name: "Cliente Frecuente",
	}))
	sale, err := f.uc.CreateSale(context.Background(), bizID, userID, dto.CreateSaleRequest{
		CustomerID: "cliente-1",
		Lines:      []dto.SaleLineRequest{{ProductID: prodB, Quantity: dec("2")}},
	})
	require.NoError(t, err)
	f.paySale(t, sale.ID, "100")

	customer, err := f.store.Customers.GetByID("cliente-1")
	require.NoError(t, err)
	assert.True(t, customer.TotalPurchases.Equal(dec("100")))
	assert.Equal(t, int64(1), customer.PurchaseCount)
	assert.True(t, customer.CurrentBalance.Equal(dec("100")), "el saldo corriente acumula la compra")
	require.NotNil(t, customer.LastPurchaseDate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelSale_PendienteSinPIN(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("1")})

	err := f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{Reason: "cliente se arrepintió"})
	require.NoError(t, err)

	reread, err := f.uc.GetSale(context.Background(), bizID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, reread.Status)
	assert.True(t, f.stock(t, prodA).Equal(dec("10")), "pending nunca descargó inventario")
}

func TestCancelSale_CompletadaExigePIN(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	f.pins.Err = domain.ErrInvalidPIN
	err := f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{PIN: "0000"})
	assert.ErrorIs(t, err, domain.ErrInvalidPIN)
	assert.True(t, f.stock(t, prodA).Equal(dec("8")), "el PIN inválido no crea movimientos")

	f.pins.Err = nil
	err = f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{PIN: "1234", Reason: "error de captura"})
	require.NoError(t, err)
	assert.True(t, f.stock(t, prodA).Equal(dec("10")), "la cancelación reingresa el stock descargado")
}

func TestCancelSale_ReversoConMovimientoCompensatorio(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")
	require.NoError(t, f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{PIN: "1234"}))

	// La salida original sigue intacta; el reverso es un ajuste nuevo.
	movs, err := f.store.Movements.ListByReference(sale.ID)
	require.NoError(t, err)
	var salidas, ajustes int
	for _, m := range movs {
		switch m.Type {
		case entity.MovementSalida:
			salidas++
		case entity.MovementAjuste:
			ajustes++
			assert.True(t, m.Quantity.Equal(dec("2")))
		}
	}
	assert.Equal(t, 1, salidas)
	assert.Equal(t, 1, ajustes)
}

func TestCancelSale_CanceladaEsEstadoTerminal(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})
	require.NoError(t, f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{}))

	err := f.uc.CancelSale(context.Background(), bizID, userID, sale.ID, dto.CancelSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRefundSale_TotalReingresaYMarcaRefunded(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	resp, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("232"), Reason: "producto defectuoso",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleRefunded, resp.Status)
	assert.True(t, resp.RefundedTotal.Equal(dec("232")))
	assert.True(t, f.stock(t, prodA).Equal(dec("10")), "devolución total reingresa todo")

	// La salida de efectivo quedó como pago negativo en el turno del operador.
	var negativos int
	for _, p := range f.store.Payments.All() {
		if p.Amount.LessThan(decimal.Zero) {
			negativos++
			assert.Equal(t, shiftID, p.ShiftID)
			assert.True(t, p.Amount.Equal(dec("-232")))
		}
	}
	assert.Equal(t, 1, negativos)
}

func TestRefundSale_ParcialNoCambiaEstado(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	resp, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("116"),
		Items: []dto.RefundLineRequest{{SaleItemID: sale.Items[0].ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, resp.Status, "parcial: sigue completed")
	assert.True(t, resp.RefundedTotal.Equal(dec("116")))
	assert.True(t, f.stock(t, prodA).Equal(dec("9")), "solo reingresó 1 unidad")
}

func TestRefundSale_AcumuladoNoSuperaElTotal(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	_, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("116"),
	})
	require.NoError(t, err)

	_, err = f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("200"),
	})
	require.Error(t, err, "116 + 200 > 232")
	assert.NotNil(t, domain.AsValidation(err))
}

// Dos devoluciones parciales no pueden reingresar la misma unidad dos veces:
// lo reingresado se deriva del libro, no de un contador.
func TestRefundSale_NoReingresaDosVeces(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	_, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("58"),
		Items: []dto.RefundLineRequest{{SaleItemID: sale.Items[0].ID, Quantity: dec("2")}},
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, prodA).Equal(dec("10")))

	_, err = f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("58"),
		Items: []dto.RefundLineRequest{{SaleItemID: sale.Items[0].ID, Quantity: dec("1")}},
	})
	require.Error(t, err, "las 2 unidades ya fueron reingresadas")
	assert.NotNil(t, domain.AsValidation(err))
}

// Devolución total después de una parcial: reingresa solo lo pendiente.
func TestRefundSale_TotalDespuesDeParcial(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodA, Quantity: dec("2")})
	f.paySale(t, sale.ID, "232")

	_, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("116"),
		Items: []dto.RefundLineRequest{{SaleItemID: sale.Items[0].ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)

	resp, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("116"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleRefunded, resp.Status)
	assert.True(t, f.stock(t, prodA).Equal(dec("10")), "10 y no 11: lo ya reingresado no se repite")
}

func TestRefundSale_ExigeTurnoAbierto(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})
	f.paySale(t, sale.ID, "50")

	_, err := f.uc.RefundSale(context.Background(), bizID, "supervisor-sin-turno", sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("50"),
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

func TestRefundSale_VentaPendienteNoSeDevuelve(t *testing.T) {
	f := setup(t)
	sale := f.createSale(t, dto.SaleLineRequest{ProductID: prodB, Quantity: dec("1")})

	_, err := f.uc.RefundSale(context.Background(), bizID, userID, sale.ID, dto.RefundSaleRequest{
		PIN: "1234", Amount: dec("50"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
