package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/finance"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// FinanceHandler consultas de registros financieros.
type FinanceHandler struct {
	uc *finance.UseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.UseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de ingresos y egresos
// @Tags         finance
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fecha final inclusive (YYYY-MM-DD)"
// @Success      200   {object}  docstore.FinancialSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Records godoc
// @Summary      Registros financieros del período
// @Tags         finance
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fecha final inclusive (YYYY-MM-DD)"
// @Success      200   {array}   dto.FinancialRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/records [get]
func (h *FinanceHandler) Records(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.Records(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "records": list})
}

// dateRange lee from/to como fechas; to cubre el día completo.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return from, to, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrValidation)
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return from, to, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrValidation)
		}
		to = d.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
