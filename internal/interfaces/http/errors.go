package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
)

// respondError traduce los errores de dominio a HTTP en un solo lugar para
// que todos los handlers respondan igual:
//
//	401  credenciales inválidas
//	403  permiso denegado, tenant ajeno, PIN requerido/incorrecto
//	404  recurso inexistente
//	409  conflicto de estado (duplicados, turno ya abierto, stock, estado)
//	422  entrada válida sintácticamente pero rechazada por las reglas
func respondError(c *fiber.Ctx, err error) error {
	if v := domain.AsValidation(err); v != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: v.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrPINRequired),
		errors.Is(err, domain.ErrInvalidPIN):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrShiftAlreadyOpen),
		errors.Is(err, domain.ErrNoOpenShift),
		errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
