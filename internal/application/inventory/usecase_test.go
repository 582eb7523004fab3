package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/inventory"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

const (
	bizID     = "biz-1"
	userID    = "user-1"
	productID = "prod-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*inventory.UseCase, *apptest.Store, *apptest.RecordingAuditor) {
	t.Helper()
	store := apptest.NewStore()
	require.NoError(t, store.Products.Create(&entity.Product{
		ID:         productID,
		BusinessID: bizID,
		Name:       "Café molido 500g",
		IsActive:   true,
		CreatedAt:  time.Now(),
	}))
	auditor := &apptest.RecordingAuditor{}
	uc := inventory.NewUseCase(
		&apptest.TxRunner{S: store},
		store.Products,
		store.Movements,
		apptest.AllowAll{},
		auditor,
	)
	return uc, store, auditor
}

func register(t *testing.T, uc *inventory.UseCase, movType, qty string) (*entity.InventoryMovement, error) {
	t.Helper()
	return uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BusinessID: bizID,
		UserID:     userID,
		ProductID:  productID,
		Type:       movType,
		Quantity:   dec(qty),
		Reason:     "test",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Convención de signos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSuma(t *testing.T) {
	uc, _, auditor := setup(t)

	mov, err := register(t, uc, entity.MovementEntrada, "10")
	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(dec("10")), "entrada se almacena en positivo")
	assert.Contains(t, auditor.Actions(), "inventory.movement")
}

func TestRegisterMovement_SalidaYMermaSeAlmacenanNegativas(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := register(t, uc, entity.MovementEntrada, "10")
	require.NoError(t, err)

	salida, err := register(t, uc, entity.MovementSalida, "3")
	require.NoError(t, err)
	assert.True(t, salida.Quantity.Equal(dec("-3")), "salida se almacena con signo negativo")

	merma, err := register(t, uc, entity.MovementMerma, "2")
	require.NoError(t, err)
	assert.True(t, merma.Quantity.Equal(dec("-2")), "merma se almacena con signo negativo")
}

func TestRegisterMovement_AjusteConservaSigno(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := register(t, uc, entity.MovementEntrada, "10")
	require.NoError(t, err)

	mov, err := register(t, uc, entity.MovementAjuste, "-4")
	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(dec("-4")))

	mov, err = register(t, uc, entity.MovementAjuste, "1.5")
	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(dec("1.5")))
}

func TestRegisterMovement_AjusteCeroRechazado(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := register(t, uc, entity.MovementAjuste, "0")
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

func TestRegisterMovement_CantidadNegativaEnEntradaRechazada(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := register(t, uc, entity.MovementEntrada, "-5")
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

func TestRegisterMovement_TipoInvalidoRechazado(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BusinessID: bizID, UserID: userID, ProductID: productID,
		Type: "prestamo", Quantity: dec("1"),
	})
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock derivado
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_EsSumaDeMovimientos(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	for _, m := range []struct{ tipo, qty string }{
		{entity.MovementEntrada, "10"},
		{entity.MovementSalida, "3"},
		{entity.MovementDevolucion, "1"},
		{entity.MovementMerma, "2"},
		{entity.MovementAjuste, "-0.5"},
	} {
		_, err := register(t, uc, m.tipo, m.qty)
		require.NoError(t, err)
	}

	stock, err := uc.StockFromMovements(ctx, bizID, productID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("5.5")), "10-3+1-2-0.5 = 5.5, fue %s", stock)
}

func TestRegisterMovement_SalidaNoDejaStockNegativo(t *testing.T) {
	uc, store, _ := setup(t)
	_, err := register(t, uc, entity.MovementEntrada, "5")
	require.NoError(t, err)

	_, err = register(t, uc, entity.MovementSalida, "6")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El movimiento rechazado no queda en el libro.
	stock, err := store.Movements.SumByProduct(productID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(dec("5")))
}

func TestRegisterMovement_SalidaExactaDejaStockCero(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := register(t, uc, entity.MovementEntrada, "5")
	require.NoError(t, err)

	_, err = register(t, uc, entity.MovementSalida, "5")
	require.NoError(t, err, "vaciar el stock exacto es válido")

	stock, err := uc.StockFromMovements(context.Background(), bizID, productID)
	require.NoError(t, err)
	assert.True(t, stock.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Frontera de tenant y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ProductoDeOtroNegocio(t *testing.T) {
	uc, store, _ := setup(t)
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "ajeno", BusinessID: "otro-negocio", Name: "Ajeno", IsActive: true,
	}))

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BusinessID: bizID, UserID: userID, ProductID: "ajeno",
		Type: entity.MovementEntrada, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterMovement_SinPermiso(t *testing.T) {
	store := apptest.NewStore()
	uc := inventory.NewUseCase(
		&apptest.TxRunner{S: store},
		store.Products,
		store.Movements,
		apptest.DenyAll{},
		&apptest.RecordingAuditor{},
	)
	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BusinessID: bizID, UserID: userID, ProductID: productID,
		Type: entity.MovementEntrada, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos bajo mínimo
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_SoloProductosBajoMinimo(t *testing.T) {
	uc, store, _ := setup(t)
	require.NoError(t, store.Products.Create(&entity.Product{
		ID: "prod-2", BusinessID: bizID, Name: "Azúcar",
		MinStockLevel: dec("10"), IsActive: true,
	}))
	require.NoError(t, store.Movements.Create(&entity.InventoryMovement{
		ID: "m1", BusinessID: bizID, ProductID: "prod-2",
		Type: entity.MovementEntrada, Quantity: dec("4"),
	}))

	items, err := uc.LowStock(context.Background(), bizID)
	require.NoError(t, err)
	require.Len(t, items, 1, "prod-1 no tiene mínimo configurado, no alerta")
	assert.Equal(t, "prod-2", items[0].ProductID)
	assert.True(t, items[0].Stock.Equal(dec("4")))
}
