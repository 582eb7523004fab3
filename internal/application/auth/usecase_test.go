package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/auth"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	pkgjwt "github.com/jmoralesdev/punto-venta-api/pkg/jwt"
)

const testSecret = "secreto-de-test"

func setup(t *testing.T) (*auth.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	uc := auth.NewUseCase(store.Users, store.Businesses, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "punto-venta-test",
	})
	return uc, store
}

func registerBusiness(t *testing.T, uc *auth.UseCase) *dto.RegisterBusinessResponse {
	t.Helper()
	out, err := uc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{
		Name:       "Abarrotes La Esquina",
		TaxID:      "ABC010101XYZ",
		OwnerName:  "Dueña",
		OwnerEmail: "duena@esquina.mx",
		Password:   "super-secreta",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterBusiness_CreaNegocioYOwner(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)

	assert.NotEmpty(t, out.BusinessID)
	assert.Equal(t, entity.UserTypeOwner, out.Owner.Type, "el primer usuario es owner")
	assert.Equal(t, out.BusinessID, out.Owner.BusinessID)
}

func TestRegisterBusiness_TaxIDDuplicado(t *testing.T) {
	uc, _ := setup(t)
	registerBusiness(t, uc)

	_, err := uc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{
		Name:       "Clon",
		TaxID:      "ABC010101XYZ",
		OwnerEmail: "otro@clon.mx",
		Password:   "12345678",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterBusiness_ValidacionesAcumuladas(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{Password: "corta"})
	require.Error(t, err)
	v := domain.AsValidation(err)
	require.NotNil(t, v)
	assert.Len(t, v.Violations, 3, "nombre, email y contraseña se reportan juntos")
}

func TestLogin_TokenConClaimsCorrectos(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "duena@esquina.mx", Password: "super-secreta",
	})
	require.NoError(t, err)

	userID, businessID, role, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Owner.ID, userID)
	assert.Equal(t, out.BusinessID, businessID)
	assert.Equal(t, entity.UserTypeOwner, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := setup(t)
	registerBusiness(t, uc)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "duena@esquina.mx", Password: "equivocada",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := setup(t)
	out := registerBusiness(t, uc)
	owner, err := store.Users.GetByID(out.Owner.ID)
	require.NoError(t, err)
	owner.IsActive = false

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "duena@esquina.mx", Password: "super-secreta",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterUser_EmailDuplicadoEnElNegocio(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)

	_, err := uc.RegisterUser(context.Background(), out.BusinessID, dto.RegisterUserRequest{
		Email: "duena@esquina.mx", Password: "12345678",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_TipoPorDefectoCashier(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)

	user, err := uc.RegisterUser(context.Background(), out.BusinessID, dto.RegisterUserRequest{
		Email: "cajero@esquina.mx", Password: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UserTypeCashier, user.Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// PIN de re-autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestPIN_ConfigurarYVerificar(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)
	ctx := context.Background()

	// Sin PIN configurado: siempre ErrPINRequired.
	err := uc.VerifyPIN(ctx, out.Owner.ID, "1234")
	assert.ErrorIs(t, err, domain.ErrPINRequired)

	require.NoError(t, uc.SetPIN(ctx, out.Owner.ID, "1234"))

	assert.NoError(t, uc.VerifyPIN(ctx, out.Owner.ID, "1234"))
	assert.ErrorIs(t, uc.VerifyPIN(ctx, out.Owner.ID, "9999"), domain.ErrInvalidPIN)
	assert.ErrorIs(t, uc.VerifyPIN(ctx, out.Owner.ID, ""), domain.ErrPINRequired)
}

func TestSetPIN_MuyCorto(t *testing.T) {
	uc, _ := setup(t)
	out := registerBusiness(t, uc)

	err := uc.SetPIN(context.Background(), out.Owner.ID, "12")
	require.Error(t, err)
	assert.NotNil(t, domain.AsValidation(err))
}
