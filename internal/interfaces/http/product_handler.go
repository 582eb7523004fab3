package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/application/pricing"
	"github.com/jmoralesdev/punto-venta-api/internal/application/usecase"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
)

// ProductHandler catálogo de productos y motor de precios.
type ProductHandler struct {
	products *usecase.ProductUseCase
	pricing  *pricing.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(products *usecase.ProductUseCase, pricingUC *pricing.UseCase) *ProductHandler {
	return &ProductHandler{products: products, pricing: pricingUC}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.products.Create(c.Context(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar producto (datos no económicos)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos editables"
// @Success      200   {object}  dto.ProductResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.products.Update(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Dar de baja lógica un producto
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.products.Deactivate(c.Context(), GetBusinessID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener producto con stock derivado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.products.GetByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.products.GetByBarcode(c.Context(), GetBusinessID(c), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos del negocio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (default 20, tope 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.products.List(c.Context(), GetBusinessID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangePrice godoc
// @Summary      Cambiar costo/precio vía motor de precios
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.PriceChangeRequest  true  "Cambio de precio con motivo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [put]
func (h *ProductHandler) ChangePrice(c *fiber.Ctx) error {
	var in dto.PriceChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.pricing.UpdateProductPrice(c.Context(), GetBusinessID(c), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// PriceHistory godoc
// @Summary      Historial de cambios de precio de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Máximo de resultados"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.PriceHistoryResponse
// @Router       /api/products/{id}/price-history [get]
func (h *ProductHandler) PriceHistory(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	history, err := h.pricing.ListPriceHistory(c.Context(), GetBusinessID(c), c.Params("id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PriceHistoryResponse, 0, len(history))
	for _, ph := range history {
		out = append(out, toPriceHistoryResponse(ph))
	}
	return c.JSON(out)
}

func toPriceHistoryResponse(ph *entity.PriceHistory) dto.PriceHistoryResponse {
	return dto.PriceHistoryResponse{
		ID:            ph.ID,
		ProductID:     ph.ProductID,
		OldCost:       ph.OldCost,
		NewCost:       ph.NewCost,
		OldPrice:      ph.OldPrice,
		NewPrice:      ph.NewPrice,
		Reason:        ph.Reason,
		ChangedBy:     ph.ChangedBy,
		EffectiveDate: ph.EffectiveDate,
	}
}

// pageParams lee limit/offset del query string con defaults sanos y tope 100.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
