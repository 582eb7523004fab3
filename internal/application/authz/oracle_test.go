package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoralesdev/punto-venta-api/internal/application/apptest"
	"github.com/jmoralesdev/punto-venta-api/internal/application/authz"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

const (
	bizA = "biz-a"
	bizB = "biz-b"
)

func seedUser(t *testing.T, store *apptest.Store, id, businessID, userType string, active bool) {
	t.Helper()
	require.NoError(t, store.Users.Create(&entity.User{
		ID:         id,
		BusinessID: businessID,
		Email:      id + "@test.local",
		Type:       userType,
		IsActive:   active,
		CreatedAt:  time.Now(),
	}))
}

func newOracle(store *apptest.Store) *authz.Oracle {
	return authz.NewOracle(store.Users, store.Perms)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por defecto según tipo (owner ⊇ admin ⊇ cashier)
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckPermission_DefaultsPorTipo(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "cajero", bizA, entity.UserTypeCashier, true)
	seedUser(t, store, "admin", bizA, entity.UserTypeAdmin, true)
	seedUser(t, store, "dueno", bizA, entity.UserTypeOwner, true)
	oracle := newOracle(store)
	ctx := context.Background()

	cases := []struct {
		userID     string
		permission string
		want       bool
	}{
		{"cajero", entity.PermSalesCreate, true},
		{"cajero", entity.PermShiftsOpen, true},
		{"cajero", entity.PermSalesRefund, false},
		{"cajero", entity.PermProductsDelete, false},
		{"admin", entity.PermSalesRefund, true},
		{"admin", entity.PermProductsAdjustPrice, true},
		{"admin", entity.PermProductsDelete, false},
		{"dueno", entity.PermProductsDelete, true},
		{"dueno", entity.PermSalesCreate, true},
	}
	for _, tc := range cases {
		got, err := oracle.CheckPermission(ctx, tc.userID, tc.permission, bizA)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s / %s", tc.userID, tc.permission)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concesiones explícitas: solo agregan, nunca quitan
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckPermission_ConcesionExplicitaAgrega(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "cajero", bizA, entity.UserTypeCashier, true)
	oracle := newOracle(store)
	ctx := context.Background()

	ok, err := oracle.CheckPermission(ctx, "cajero", entity.PermSalesRefund, bizA)
	require.NoError(t, err)
	require.False(t, ok, "sin concesión el cajero no devuelve ventas")

	require.NoError(t, store.Perms.Grant(&entity.PermissionAssignment{
		ID: "g1", BusinessID: bizA, UserID: "cajero",
		Permission: entity.PermSalesRefund, GrantedBy: "dueno",
	}))

	ok, err = oracle.CheckPermission(ctx, "cajero", entity.PermSalesRefund, bizA)
	require.NoError(t, err)
	assert.True(t, ok, "la concesión explícita habilita el permiso")
}

func TestCheckPermission_RevocarNoTocaDefaults(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "cajero", bizA, entity.UserTypeCashier, true)
	oracle := newOracle(store)
	ctx := context.Background()

	// Conceder y revocar un permiso que el cajero ya tiene por defecto.
	require.NoError(t, store.Perms.Grant(&entity.PermissionAssignment{
		ID: "g1", BusinessID: bizA, UserID: "cajero", Permission: entity.PermSalesCreate,
	}))
	require.NoError(t, store.Perms.Revoke(bizA, "cajero", entity.PermSalesCreate))

	ok, err := oracle.CheckPermission(ctx, "cajero", entity.PermSalesCreate, bizA)
	require.NoError(t, err)
	assert.True(t, ok, "revocar una concesión nunca quita permisos por defecto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Frontera de tenant y usuarios inactivos
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckPermission_OtroNegocioSiempreNiega(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "dueno", bizA, entity.UserTypeOwner, true)
	oracle := newOracle(store)

	ok, err := oracle.CheckPermission(context.Background(), "dueno", entity.PermSalesCreate, bizB)
	require.NoError(t, err)
	assert.False(t, ok, "ni el owner cruza la frontera de tenant")
}

func TestCheckPermission_UsuarioInactivoNiega(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "exempleado", bizA, entity.UserTypeOwner, false)
	oracle := newOracle(store)

	ok, err := oracle.CheckPermission(context.Background(), "exempleado", entity.PermSalesCreate, bizA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPermission_UsuarioInexistenteNiega(t *testing.T) {
	store := apptest.NewStore()
	oracle := newOracle(store)

	ok, err := oracle.CheckPermission(context.Background(), "fantasma", entity.PermSalesCreate, bizA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequirePermission_DevuelvePermissionDenied(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "cajero", bizA, entity.UserTypeCashier, true)
	oracle := newOracle(store)

	err := oracle.RequirePermission(context.Background(), "cajero", entity.PermAuditView, bizA)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
