package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/auth"
	"github.com/jmoralesdev/punto-venta-api/internal/application/authz"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// AuthHandler maneja registro, login y PIN.
type AuthHandler struct {
	uc     *auth.UseCase
	oracle *authz.Oracle
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase, oracle *authz.Oracle) *AuthHandler {
	return &AuthHandler{uc: uc, oracle: oracle}
}

// RegisterBusiness godoc
// @Summary      Registrar negocio con su propietario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBusinessRequest  true  "Datos del negocio y propietario"
// @Success      201   {object}  dto.RegisterBusinessResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) RegisterBusiness(c *fiber.Ctx) error {
	var in dto.RegisterBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterBusiness(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterUser godoc
// @Summary      Registrar empleado del negocio
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterUserRequest  true  "Datos del empleado"
// @Success      201   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	businessID, userID := GetBusinessID(c), GetUserID(c)
	if err := h.oracle.RequirePermission(c.Context(), userID, entity.PermUsersCreate, businessID); err != nil {
		return respondError(c, err)
	}
	var in dto.RegisterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterUser(c.Context(), businessID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetPIN godoc
// @Summary      Configurar el PIN de re-autorización propio
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/users/me/pin [put]
func (h *AuthHandler) SetPIN(c *fiber.Ctx) error {
	var in dto.SetPINRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetPIN(c.Context(), GetUserID(c), in.PIN); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
