package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/pricing"
)

// PricingHandler ajuste masivo de precios en dos pasos (vista previa y aplicación).
type PricingHandler struct {
	engine *pricing.BulkPriceEngine
}

// NewPricingHandler construye el handler.
func NewPricingHandler(engine *pricing.BulkPriceEngine) *PricingHandler {
	return &PricingHandler{engine: engine}
}

// Preview godoc
// @Summary      Vista previa de ajuste masivo de precios
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPriceRequest  true  "filter (all|category|product), category, product_id, percentage"
// @Success      200   {object}  dto.BulkPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pricing/bulk/preview [post]
func (h *PricingHandler) Preview(c *fiber.Ctx) error {
	var in dto.BulkPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.engine.PreviewFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Apply godoc
// @Summary      Aplicar ajuste masivo de precios
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPriceRequest  true  "filter (all|category|product), category, product_id, percentage"
// @Success      200   {object}  dto.BulkPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/pricing/bulk/apply [post]
func (h *PricingHandler) Apply(c *fiber.Ctx) error {
	var in dto.BulkPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.engine.ApplyFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
