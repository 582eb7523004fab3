package entity

import "time"

// Permisos del sistema. El nombre indica el radio de acción exacto: cambiar
// precios exige products.adjust_price, no el genérico products.update.
const (
	PermSalesCreate         = "sales.create"
	PermSalesCancel         = "sales.cancel"
	PermSalesRefund         = "sales.refund"
	PermProductsCreate      = "products.create"
	PermProductsUpdate      = "products.update"
	PermProductsAdjustPrice = "products.adjust_price"
	PermProductsDelete      = "products.delete"
	PermInventoryAdjust     = "inventory.adjust"
	PermInventoryView       = "inventory.view"
	PermShiftsOpen          = "shifts.open"
	PermShiftsClose         = "shifts.close"
	PermReportsView         = "reports.view"
	PermUsersCreate         = "users.create"
	PermUsersUpdate         = "users.update"
	PermCustomersManage     = "customers.manage"
	PermRegistersManage     = "registers.manage"
	PermAuditView           = "audit.view"
)

// PermissionAssignment es una concesión explícita (businessId, userId, permiso).
// El modelo es solo aditivo: no existen registros de denegación.
type PermissionAssignment struct {
	ID         string
	BusinessID string
	UserID     string
	Permission string
	GrantedBy  string
	CreatedAt  time.Time
}
