// Package inventory contiene las reglas puras del motor de stock y precios (servicios de dominio).
// No accede al almacén: los casos de uso calculan aquí y persisten en lote.
package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName devuelve la clave de búsqueda de un nombre: sin espacios en los extremos,
// en forma NFC y con case folding Unicode (" Tornillo M8 " y "tornillo m8" comparten clave).
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(trimmed))
}

// ApplyStockDelta calcula el nuevo estado del ítem tras sumar delta al stock
// y, si newCost no es nil, reemplazar el costo unitario. No persiste nada.
// Falla con ErrInvariantViolation si el stock resultante sería negativo.
func ApplyStockDelta(item entity.InventoryItem, delta decimal.Decimal, newCost *decimal.Decimal) (entity.InventoryItem, error) {
	next := item.Stock.Add(delta)
	if next.IsNegative() {
		return item, fmt.Errorf("%w: %s (stock %s, delta %s)", domain.ErrInvariantViolation, item.Name, item.Stock, delta)
	}
	item.Stock = next
	if newCost != nil {
		if newCost.IsNegative() {
			return item, fmt.Errorf("%w: costo unitario negativo", domain.ErrValidation)
		}
		item.CostPerUnit = *newCost
	}
	return item, nil
}

// ParseNumber interpreta un valor numérico ingresado como texto ("12", " 3.5 ").
// Falla con ErrValidation si no es un número válido; field identifica el campo en el mensaje.
func ParseNumber(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %s requerido", domain.ErrValidation, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s no es un número válido", domain.ErrValidation, field)
	}
	return d, nil
}

// CheckWholeUnits exige un entero >= 0: el stock terminado se cuenta en unidades completas.
func CheckWholeUnits(field string, d decimal.Decimal) error {
	if d.IsNegative() || !d.IsInteger() {
		return fmt.Errorf("%w: %s debe ser un número entero de unidades, se recibió %s", domain.ErrValidation, field, d)
	}
	return nil
}
