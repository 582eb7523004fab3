package entity

import "time"

// Tipos válidos para User. Cada usuario tiene exactamente uno.
const (
	UserTypeOwner   = "owner"
	UserTypeAdmin   = "admin"
	UserTypeCashier = "cashier"
)

// User representa un empleado del negocio. Borrado lógico vía IsActive.
// PINHash es el hash bcrypt del PIN de re-autorización en caja (cancelaciones
// y devoluciones); vacío si el usuario no lo ha configurado.
type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	PINHash      string
	Name         string
	Type         string // owner, admin, cashier
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
