package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrPermissionDenied    = errors.New("permiso denegado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInvalidState        = errors.New("estado inválido para la operación")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("pago insuficiente")
	ErrShiftAlreadyOpen    = errors.New("el usuario ya tiene un turno abierto")
	ErrNoOpenShift         = errors.New("el usuario no tiene un turno abierto")
	ErrPINRequired         = errors.New("se requiere PIN de autorización")
	ErrInvalidPIN          = errors.New("PIN inválido")
)

// ValidationError acumula todas las violaciones de validación encontradas,
// no solo la primera. El mensaje las enumera separadas por "; ".
type ValidationError struct {
	Violations []string
}

// Error implementa error.
func (e *ValidationError) Error() string {
	return "validación: " + strings.Join(e.Violations, "; ")
}

// NewValidationError construye el error con las violaciones dadas.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidation devuelve el *ValidationError envuelto en err, o nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
