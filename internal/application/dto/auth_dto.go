package dto

import "time"

// RegisterBusinessRequest alta de negocio con su usuario propietario.
type RegisterBusinessRequest struct {
	Name       string `json:"name"`
	TaxID      string `json:"tax_id"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
	Password   string `json:"password"`
}

// RegisterUserRequest alta de empleado dentro de un negocio.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Type     string `json:"type"` // owner, admin, cashier
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetPINRequest configura el PIN de re-autorización en caja.
type SetPINRequest struct {
	PIN string `json:"pin"`
}

// UserResponse usuario sin datos sensibles.
type UserResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoginResponse token JWT + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterBusinessResponse negocio creado + propietario.
type RegisterBusinessResponse struct {
	BusinessID string       `json:"business_id"`
	Owner      UserResponse `json:"owner"`
}

// GrantPermissionRequest concesión explícita de un permiso.
type GrantPermissionRequest struct {
	UserID     string `json:"user_id"`
	Permission string `json:"permission"`
}
