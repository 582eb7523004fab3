package authz

import "github.com/jmoralesdev/punto-venta-api/internal/domain/entity"

// Tabla estática de permisos por defecto según el tipo de usuario.
// owner ⊇ admin ⊇ cashier. Las concesiones explícitas solo AGREGAN permisos
// sobre esta base; no existe denegación explícita.
var cashierDefaults = []string{
	entity.PermSalesCreate,
	entity.PermShiftsOpen,
	entity.PermShiftsClose,
	entity.PermInventoryView,
	entity.PermCustomersManage,
}

var adminExtras = []string{
	entity.PermSalesCancel,
	entity.PermSalesRefund,
	entity.PermProductsCreate,
	entity.PermProductsUpdate,
	entity.PermProductsAdjustPrice,
	entity.PermInventoryAdjust,
	entity.PermReportsView,
	entity.PermUsersCreate,
	entity.PermUsersUpdate,
	entity.PermRegistersManage,
	entity.PermAuditView,
}

var ownerExtras = []string{
	entity.PermProductsDelete,
}

var defaultsByType = buildDefaults()

func buildDefaults() map[string]map[string]struct{} {
	asSet := func(groups ...[]string) map[string]struct{} {
		set := make(map[string]struct{})
		for _, g := range groups {
			for _, p := range g {
				set[p] = struct{}{}
			}
		}
		return set
	}
	return map[string]map[string]struct{}{
		entity.UserTypeCashier: asSet(cashierDefaults),
		entity.UserTypeAdmin:   asSet(cashierDefaults, adminExtras),
		entity.UserTypeOwner:   asSet(cashierDefaults, adminExtras, ownerExtras),
	}
}

// DefaultHas indica si el tipo de usuario tiene el permiso por defecto.
func DefaultHas(userType, permission string) bool {
	set, ok := defaultsByType[userType]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}
