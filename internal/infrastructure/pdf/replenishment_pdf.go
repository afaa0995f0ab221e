// Package pdf genera la versión imprimible de la lista de reposición para compras.
//
// Layout de la página A4 horizontal:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación │ total ítems           │
//	│  ───────────────────────────────────────────────────────────  │
//	│  TABLA: # | Ítem | Proveedor | Stock | Mín. | Pedir | Costo   │
//	│  ───────────────────────────────────────────────────────────  │
//	│  TOTAL ESTIMADO DEL PEDIDO                                     │
//	└───────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.ReplenishmentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company  string
	currency *money.Currency
}

// NewMarotoPDFGenerator construye el generador. company aparece en el encabezado;
// currency es el código ISO 4217 de los costos (COP si no se reconoce).
func NewMarotoPDFGenerator(company, currency string) *MarotoPDFGenerator {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(money.COP)
	}
	return &MarotoPDFGenerator{company: company, currency: cur}
}

// GenerateReplenishmentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReplenishmentPDF(
	_ context.Context,
	list []dto.ReplenishmentSuggestionDTO,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de reposición", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, len(list), generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(list, g.currency)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(list, g.currency))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, total int, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("LISTA DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(company, "Inventario"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d ítems bajo el mínimo", total), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Ítem", 3, align.Left),
		h("Proveedor", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Déficit", 1, align.Right),
		h("Pedir", 1, align.Right),
		h("Costo est.", 2, align.Right),
	)
}

// tableDetailRows: una fila por sugerencia, en el orden de prioridad recibido.
func tableDetailRows(list []dto.ReplenishmentSuggestionDTO, cur *money.Currency) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, s := range list {
		cell := func(v string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		deficit := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if s.CurrentStock.IsZero() {
			deficit.Color = colorAlert
			deficit.Style = fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			cell(fmt.Sprintf("%d", s.Priority), 1, align.Center),
			cell(itemLabel(s), 3, align.Left),
			cell(nonEmpty(s.SupplierName, "-"), 2, align.Left),
			cell(s.CurrentStock.String(), 1, align.Right),
			cell(s.StockMinimum.String(), 1, align.Right),
			col.New(1).Add(text.New(s.DeficitPct.StringFixed(0)+"%", deficit)),
			cell(s.SuggestedOrderQty.String(), 1, align.Right),
			cell(formatMoney(s.EstimatedOrderCost, cur), 2, align.Right),
		))
	}
	return result
}

func totalRow(list []dto.ReplenishmentSuggestionDTO, cur *money.Currency) core.Row {
	total := decimal.Zero
	for _, s := range list {
		total = total.Add(s.EstimatedOrderCost)
	}
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL ESTIMADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(formatMoney(total, cur), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func itemLabel(s dto.ReplenishmentSuggestionDTO) string {
	if s.SKU == "" {
		return s.ItemName
	}
	return s.SKU + " · " + s.ItemName
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney formatea d con el símbolo y separadores de la moneda.
// Ej. COP: 25000 → "$25.000,00"; USD: 25000 → "$25,000.00".
func formatMoney(d decimal.Decimal, cur *money.Currency) string {
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
