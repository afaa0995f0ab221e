package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de ítems, movimientos y reportes de inventario.
type InventoryHandler struct {
	coordinator    *inventory.TransactionCoordinator
	query          *inventory.QueryUseCase
	reconciliation *inventory.ReconciliationUseCase
	replenishment  *inventory.ReplenishmentUseCase
	pdf            *inventory.ReplenishmentPDFUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	coordinator *inventory.TransactionCoordinator,
	query *inventory.QueryUseCase,
	reconciliation *inventory.ReconciliationUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	pdf *inventory.ReplenishmentPDFUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		coordinator:    coordinator,
		query:          query,
		reconciliation: reconciliation,
		replenishment:  replenishment,
		pdf:            pdf,
	}
}

// CreateItem godoc
// @Summary      Registrar ítem con stock existente
// @Description  No genera movimiento: el stock declarado pasa a ser la base de conciliación.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.coordinator.CreateItemFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar ítems de inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.ItemResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	list, err := h.query.ListItems(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// GetItem godoc
// @Summary      Obtener ítem por ID
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.query.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Alta o reposición de stock por nombre
// @Description  Si el nombre (sin distinguir mayúsculas ni espacios) existe suma la cantidad;
//
//	si no, crea el ítem. Con cantidad > 0 registra una entrada.
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "name, quantity, unit_cost, supplier_name"
// @Success      200   {object}  dto.MovementResultResponse
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.coordinator.RestockFromRequest(c.UserContext(), GetOperatorID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Egress godoc
// @Summary      Salida manual de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del ítem"
// @Param        body  body  dto.EgressRequest  true  "quantity, reason"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/egress [post]
func (h *InventoryHandler) Egress(c *fiber.Ctx) error {
	var in dto.EgressRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.coordinator.EgressFromRequest(c.UserContext(), GetOperatorID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjustment godoc
// @Summary      Ajuste manual de stock y costo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.AdjustmentRequest  true  "new_stock, new_cost_per_unit, reason"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/adjustment [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.coordinator.AdjustmentFromRequest(c.UserContext(), GetOperatorID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un ítem
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	list, err := h.query.ListMovements(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// Reconciliation godoc
// @Summary      Conciliar stock contra el libro de movimientos
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  docstore.StockReconciliation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/reconciliation [get]
func (h *InventoryHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.reconciliation.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Conciliar todos los ítems
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  inventory.AuditReport
// @Router       /api/inventory/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	out, err := h.reconciliation.AuditAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Lista de reposición
// @Description  Ítems en o por debajo del stock mínimo con la cantidad sugerida de pedido,
//
//	ordenados por déficit relativo.
//
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// LowStockPDF godoc
// @Summary      Lista de reposición en PDF
// @Tags         inventory
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /api/inventory/low-stock/pdf [get]
func (h *InventoryHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadReplenishmentPDF(c.UserContext(), time.Now())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
