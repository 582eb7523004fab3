package shifts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/application/shifts"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

const (
	bizID      = "biz-1"
	registerID = "caja-1"
	cajeroID   = "cajero-1"
	relevoID   = "cajero-2"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*shifts.UseCase, *apptest.Store, *apptest.RecordingAuditor) {
	t.Helper()
	store := apptest.NewStore()
	now := time.Now()
	require.NoError(t, store.Registers.Create(&entity.CashRegister{
		ID: registerID, BusinessID: bizID, Name: "Caja principal", IsActive: true, CreatedAt: now,
	}))
	for _, id := range []string{cajeroID, relevoID} {
		require.NoError(t, store.Users.Create(&entity.User{
			ID: id, BusinessID: bizID, Email: id + "@test.local",
			Type: entity.UserTypeCashier, IsActive: true, CreatedAt: now,
		}))
	}
	auditor := &apptest.RecordingAuditor{}
	uc := shifts.NewUseCase(
		&apptest.TxRunner{S: store},
		store.Shifts, store.Registers, store.Users,
		apptest.AllowAll{}, auditor,
	)
	return uc, store, auditor
}

func openShift(t *testing.T, uc *shifts.UseCase, userID, openingCash string) *dto.ShiftResponse {
	t.Helper()
	shift, err := uc.OpenShift(context.Background(), bizID, userID, dto.OpenShiftRequest{
		RegisterID:  registerID,
		OpeningCash: dec(openingCash),
	})
	require.NoError(t, err)
	return shift
}

func cashPayment(t *testing.T, store *apptest.Store, shiftID, amount string) {
	t.Helper()
	require.NoError(t, store.Payments.Create(&entity.Payment{
		ID: "p-" + amount + "-" + shiftID, SaleID: "venta-x", ShiftID: shiftID,
		BusinessID: bizID, Method: entity.PaymentCash, Amount: dec(amount),
		CreatedAt: time.Now(),
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura y exclusividad
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenShift_Abre(t *testing.T) {
	uc, _, auditor := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	assert.Equal(t, entity.ShiftOpen, shift.Status)
	assert.True(t, shift.OpeningCash.Equal(dec("500")))
	assert.Contains(t, auditor.Actions(), "shifts.open")
}

func TestOpenShift_SegundoTurnoDelMismoUsuarioRechazado(t *testing.T) {
	uc, _, _ := setup(t)
	openShift(t, uc, cajeroID, "500")

	_, err := uc.OpenShift(context.Background(), bizID, cajeroID, dto.OpenShiftRequest{
		RegisterID: registerID, OpeningCash: dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)
}

func TestOpenShift_FondoNegativoRechazado(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.OpenShift(context.Background(), bizID, cajeroID, dto.OpenShiftRequest{
		RegisterID: registerID, OpeningCash: dec("-1"),
	})
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}

func TestOpenShift_CajaDeOtroNegocio(t *testing.T) {
	uc, store, _ := setup(t)
	require.NoError(t, store.Registers.Create(&entity.CashRegister{
		ID: "caja-ajena", BusinessID: "otro", Name: "Ajena", IsActive: true,
	}))
	_, err := uc.OpenShift(context.Background(), bizID, cajeroID, dto.OpenShiftRequest{
		RegisterID: "caja-ajena", OpeningCash: dec("0"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre: aritmética de efectivo
// ──────────────────────────────────────────────────────────────────────────────

func TestCloseShift_AritmeticaDeEfectivo(t *testing.T) {
	uc, store, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	cashPayment(t, store, shift.ID, "300")  // venta en efectivo
	cashPayment(t, store, shift.ID, "200")  // venta en efectivo
	cashPayment(t, store, shift.ID, "-100") // devolución en efectivo

	closed, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{
		ActualCash: dec("880"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftClosed, closed.Status)
	assert.True(t, closed.ExpectedCash.Equal(dec("900")), "500+500-100, fue %s", closed.ExpectedCash)
	assert.True(t, closed.Difference.Equal(dec("-20")), "faltante de 20, fue %s", closed.Difference)
}

// Los pagos con tarjeta/transferencia no entran al cajón.
func TestCloseShift_SoloCuentaEfectivo(t *testing.T) {
	uc, store, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "100")
	cashPayment(t, store, shift.ID, "50")
	require.NoError(t, store.Payments.Create(&entity.Payment{
		ID: "tarjeta-1", SaleID: "venta-x", ShiftID: shift.ID,
		BusinessID: bizID, Method: entity.PaymentCard, Amount: dec("999"),
	}))

	closed, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{
		ActualCash: dec("150"),
	})
	require.NoError(t, err)
	assert.True(t, closed.ExpectedCash.Equal(dec("150")))
	assert.True(t, closed.Difference.IsZero())
}

// Un descuadre nunca bloquea el cierre: se registra y listo.
func TestCloseShift_DescuadreNoBloquea(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	closed, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{
		ActualCash: dec("0"),
	})
	require.NoError(t, err)
	assert.True(t, closed.Difference.Equal(dec("-500")))
}

func TestCloseShift_SoloElPropioTurno(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	_, err := uc.CloseShift(context.Background(), bizID, relevoID, shift.ID, dto.CloseShiftRequest{
		ActualCash: dec("500"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestForceCloseShift_CierraTurnoAjeno(t *testing.T) {
	uc, _, auditor := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	closed, err := uc.ForceCloseShift(context.Background(), bizID, relevoID, shift.ID, dto.CloseShiftRequest{
		ActualCash: dec("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftClosed, closed.Status)
	assert.Contains(t, auditor.Actions(), "shifts.force_close")
}

func TestCloseShift_YaCerrado(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")
	_, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{ActualCash: dec("500")})
	require.NoError(t, err)

	_, err = uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{ActualCash: dec("500")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileShift_CerradoAConciliado(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")
	_, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{ActualCash: dec("500")})
	require.NoError(t, err)

	rec, err := uc.ReconcileShift(context.Background(), bizID, "supervisor", shift.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftReconciled, rec.Status)
	assert.Equal(t, "supervisor", rec.ReconciledBy)
	require.NotNil(t, rec.ReconciledAt)
}

// Conciliar dos veces es inocuo: ni cambia quién concilió ni audita de nuevo.
func TestReconcileShift_Idempotente(t *testing.T) {
	uc, _, auditor := setup(t)
	shift := openShift(t, uc, cajeroID, "500")
	_, err := uc.CloseShift(context.Background(), bizID, cajeroID, shift.ID, dto.CloseShiftRequest{ActualCash: dec("500")})
	require.NoError(t, err)

	first, err := uc.ReconcileShift(context.Background(), bizID, "supervisor", shift.ID)
	require.NoError(t, err)
	auditsAfterFirst := len(auditor.Entries)

	second, err := uc.ReconcileShift(context.Background(), bizID, "otro-supervisor", shift.ID)
	require.NoError(t, err)
	assert.Equal(t, "supervisor", second.ReconciledBy, "la segunda llamada no reasigna")
	assert.Equal(t, first.ReconciledAt, second.ReconciledAt)
	assert.Len(t, auditor.Entries, auditsAfterFirst, "sin auditoría duplicada")
}

func TestReconcileShift_AbiertoNoSeConcilia(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	_, err := uc.ReconcileShift(context.Background(), bizID, "supervisor", shift.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencia y turno vigente
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferShift_Reasigna(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")

	out, err := uc.TransferShift(context.Background(), bizID, "supervisor", shift.ID, dto.TransferShiftRequest{
		NewUserID: relevoID,
	})
	require.NoError(t, err)
	assert.Equal(t, relevoID, out.UserID)

	// El turno sigue siendo el mismo: mismo fondo, mismas ventas acumuladas.
	assert.Equal(t, shift.ID, out.ID)
	assert.True(t, out.OpeningCash.Equal(dec("500")))
}

func TestTransferShift_DestinoConTurnoAbierto(t *testing.T) {
	uc, _, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")
	openShift(t, uc, relevoID, "200")

	_, err := uc.TransferShift(context.Background(), bizID, "supervisor", shift.ID, dto.TransferShiftRequest{
		NewUserID: relevoID,
	})
	assert.ErrorIs(t, err, domain.ErrShiftAlreadyOpen)
}

func TestTransferShift_DestinoInactivo(t *testing.T) {
	uc, store, _ := setup(t)
	shift := openShift(t, uc, cajeroID, "500")
	require.NoError(t, store.Users.Create(&entity.User{
		ID: "baja", BusinessID: bizID, Email: "baja@test.local",
		Type: entity.UserTypeCashier, IsActive: false,
	}))

	_, err := uc.TransferShift(context.Background(), bizID, "supervisor", shift.ID, dto.TransferShiftRequest{
		NewUserID: "baja",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCurrentShift(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.CurrentShift(context.Background(), bizID, cajeroID)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)

	shift := openShift(t, uc, cajeroID, "500")
	current, err := uc.CurrentShift(context.Background(), bizID, cajeroID)
	require.NoError(t, err)
	assert.Equal(t, shift.ID, current.ID)
}
