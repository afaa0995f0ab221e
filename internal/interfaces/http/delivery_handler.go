package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// RecipeHandler recetas de productos terminados y sus entregas.
type RecipeHandler struct {
	coordinator *inventory.TransactionCoordinator
	query       *inventory.QueryUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(coordinator *inventory.TransactionCoordinator, query *inventory.QueryUseCase) *RecipeHandler {
	return &RecipeHandler{coordinator: coordinator, query: query}
}

// List godoc
// @Summary      Listar recetas con stock de terminados
// @Tags         recipes
// @Produce      json
// @Success      200  {array}  dto.RecipeResponse
// @Router       /api/recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	list, err := h.query.ListRecipes(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "recipes": list})
}

// Deliver godoc
// @Summary      Entregar productos terminados
// @Description  Descuenta el stock terminado y registra el ingreso en una sola transacción.
//
//	Sin unit_price el precio se toma del catálogo de productos.
//
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la receta"
// @Param        body  body  dto.DeliveryRequest  true  "quantity, unit_price"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/deliveries [post]
func (h *RecipeHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.coordinator.DeliveryFromRequest(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
