package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/application/shifts"
	"github.com/jmoralesdev/punto-venta-api/internal/application/usecase"
)

// ShiftHandler turnos de caja y cajas físicas.
type ShiftHandler struct {
	uc        *shifts.UseCase
	registers *usecase.RegisterUseCase
}

// NewShiftHandler construye el handler.
func NewShiftHandler(uc *shifts.UseCase, registers *usecase.RegisterUseCase) *ShiftHandler {
	return &ShiftHandler{uc: uc, registers: registers}
}

// Open godoc
// @Summary      Abrir turno de caja
// @Description  Un operador solo puede tener un turno abierto a la vez.
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "Caja y fondo inicial"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/open [post]
func (h *ShiftHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.OpenShift(c.Context(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar el turno propio con conteo de efectivo
// @Description  Calcula esperado vs declarado y registra la diferencia; un
// @Description  descuadre nunca bloquea el cierre.
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.CloseShiftRequest  true  "Efectivo contado"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/close [post]
func (h *ShiftHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CloseShift(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ForceClose godoc
// @Summary      Cerrar el turno de otro operador (supervisión)
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.CloseShiftRequest  true  "Efectivo contado"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/force-close [post]
func (h *ShiftHandler) ForceClose(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ForceCloseShift(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar un turno cerrado
// @Description  Idempotente: conciliar un turno ya conciliado lo devuelve tal
// @Description  cual sin registrar nada nuevo.
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/reconcile [post]
func (h *ShiftHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.ReconcileShift(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir un turno abierto a otro cajero
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.TransferShiftRequest  true  "Nuevo operador"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/transfer [post]
func (h *ShiftHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.TransferShift(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Current godoc
// @Summary      Turno abierto del operador autenticado
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/shifts/current [get]
func (h *ShiftHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.CurrentShift(c.Context(), GetBusinessID(c), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un turno
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id} [get]
func (h *ShiftHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetShift(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar turnos del negocio
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ShiftResponse
// @Router       /api/shifts [get]
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListShifts(c.Context(), GetBusinessID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateRegister godoc
// @Summary      Dar de alta una caja física
// @Tags         registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRegisterRequest  true  "Datos de la caja"
// @Success      201   {object}  entity.CashRegister
// @Router       /api/registers [post]
func (h *ShiftHandler) CreateRegister(c *fiber.Ctx) error {
	var in dto.CreateRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.registers.Create(c.Context(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRegisters godoc
// @Summary      Listar cajas físicas del negocio
// @Tags         registers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CashRegister
// @Router       /api/registers [get]
func (h *ShiftHandler) ListRegisters(c *fiber.Ctx) error {
	out, err := h.registers.List(c.Context(), GetBusinessID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
