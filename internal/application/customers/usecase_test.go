package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/customers"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

const (
	bizID  = "biz-1"
	userID = "cajero-1"
)

func setup(t *testing.T) (*customers.UseCase, *apptest.Store, *apptest.RecordingAuditor) {
	t.Helper()
	store := apptest.NewStore()
	auditor := &apptest.RecordingAuditor{}
	uc := customers.NewUseCase(store.Customers, apptest.AllowAll{}, auditor)
	return uc, store, auditor
}

func TestCreateCustomer_AltaConAuditoria(t *testing.T) {
	uc, _, auditor := setup(t)

	out, err := uc.CreateCustomer(context.Background(), bizID, userID, dto.CreateCustomerRequest{
		Name:        "  María Pérez ",
		Email:       "maria@cliente.mx",
		CreditLimit: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, "María Pérez", out.Name, "el nombre se guarda sin espacios sobrantes")
	assert.True(t, out.TotalPurchases.IsZero())
	assert.Zero(t, out.PurchaseCount)
	assert.Nil(t, out.LastPurchaseDate)
	assert.Contains(t, auditor.Actions(), "customers.create")
}

func TestCreateCustomer_Validaciones(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.CreateCustomer(ctx, bizID, userID, dto.CreateCustomerRequest{Name: "   "})
	assert.NotNil(t, domain.AsValidation(err), "nombre vacío")

	_, err = uc.CreateCustomer(ctx, bizID, userID, dto.CreateCustomerRequest{
		Name: "X", CreditLimit: decimal.NewFromInt(-1),
	})
	assert.NotNil(t, domain.AsValidation(err), "límite de crédito negativo")
}

func TestCreateCustomer_SinPermiso(t *testing.T) {
	store := apptest.NewStore()
	uc := customers.NewUseCase(store.Customers, apptest.DenyAll{}, &apptest.RecordingAuditor{})

	_, err := uc.CreateCustomer(context.Background(), bizID, userID, dto.CreateCustomerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// Los agregados de compra no se tocan al editar datos de contacto.
func TestUpdateCustomer_PreservaAgregados(t *testing.T) {
	uc, store, _ := setup(t)
	when := time.Now()
	require.NoError(t, store.Customers.Create(&entity.Customer{
		ID: "cli-1", BusinessID: bizID, Name: "María",
		TotalPurchases:   decimal.NewFromInt(900),
		PurchaseCount:    7,
		LastPurchaseDate: &when,
	}))

	out, err := uc.UpdateCustomer(context.Background(), bizID, userID, "cli-1", dto.CreateCustomerRequest{
		Name: "María P.", Phone: "5512345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "María P.", out.Name)
	assert.True(t, out.TotalPurchases.Equal(decimal.NewFromInt(900)))
	assert.EqualValues(t, 7, out.PurchaseCount)
	require.NotNil(t, out.LastPurchaseDate)
}

func TestUpdateCustomer_DeOtroNegocio(t *testing.T) {
	uc, store, _ := setup(t)
	require.NoError(t, store.Customers.Create(&entity.Customer{
		ID: "ajeno", BusinessID: "otro", Name: "Ajeno",
	}))

	_, err := uc.UpdateCustomer(context.Background(), bizID, userID, "ajeno", dto.CreateCustomerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetCustomer_NoExiste(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.GetCustomer(context.Background(), bizID, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCustomers_SoloDelNegocio(t *testing.T) {
	uc, store, _ := setup(t)
	require.NoError(t, store.Customers.Create(&entity.Customer{ID: "a", BusinessID: bizID, Name: "A"}))
	require.NoError(t, store.Customers.Create(&entity.Customer{ID: "b", BusinessID: "otro", Name: "B"}))

	out, err := uc.ListCustomers(context.Background(), bizID, 10, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}
