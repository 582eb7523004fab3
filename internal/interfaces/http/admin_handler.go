package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/application/usecase"
)

// AdminHandler concesiones de permiso y consulta de auditoría.
type AdminHandler struct {
	permissions *usecase.PermissionUseCase
	audits      *usecase.AuditUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(permissions *usecase.PermissionUseCase, audits *usecase.AuditUseCase) *AdminHandler {
	return &AdminHandler{permissions: permissions, audits: audits}
}

// GrantPermission godoc
// @Summary      Conceder un permiso explícito a un usuario
// @Description  El modelo es aditivo: conceder nunca quita nada, y revocar una
// @Description  concesión no toca los permisos por defecto del tipo de usuario.
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/permissions/grant [post]
func (h *AdminHandler) GrantPermission(c *fiber.Ctx) error {
	var in dto.GrantPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.permissions.Grant(c.Context(), GetBusinessID(c), GetUserID(c), in.UserID, in.Permission); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokePermission godoc
// @Summary      Revocar una concesión explícita
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/revoke [post]
func (h *AdminHandler) RevokePermission(c *fiber.Ctx) error {
	var in dto.GrantPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.permissions.Revoke(c.Context(), GetBusinessID(c), GetUserID(c), in.UserID, in.Permission); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUserPermissions godoc
// @Summary      Listar las concesiones explícitas de un usuario
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {array}  entity.PermissionAssignment
// @Router       /api/users/{id}/permissions [get]
func (h *AdminHandler) ListUserPermissions(c *fiber.Ctx) error {
	out, err := h.permissions.ListByUser(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAuditLog godoc
// @Summary      Consultar el registro de auditoría del negocio
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.AuditLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AdminHandler) ListAuditLog(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.audits.List(c.Context(), GetBusinessID(c), GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
