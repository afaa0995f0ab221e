// Package docstore contiene los almacenes del motor (ítems, movimientos, recetas, registros
// financieros y catálogo de precios) construidos sobre el contrato repository.DocumentStore.
// Cada almacén lee a través de un repository.Reader (el almacén o una transacción abierta)
// y escribe acumulando en un repository.Writer (lote o transacción), igual que los repos
// atados a pool o tx.
package docstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Colecciones del almacén de documentos.
const (
	CollectionItems     = "inventory_items"
	CollectionMovements = "inventory_movements"
	CollectionRecipes   = "recipes"
	CollectionFinancial = "financial_records"
	CollectionProducts  = "products"
)

func str(doc repository.Document, field string) string {
	switch v := doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// number interpreta un campo numérico tolerando los formatos que dejan los distintos drivers
// (texto canónico, float de JSON, enteros de BSON). ok es false si falta o no es un número.
func number(doc repository.Document, field string) (decimal.Decimal, bool) {
	switch v := doc[field].(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}

// num igual que number pero devuelve cero si el campo no es válido.
func num(doc repository.Document, field string) decimal.Decimal {
	d, _ := number(doc, field)
	return d
}

func timestamp(doc repository.Document, field string) time.Time {
	switch v := doc[field].(type) {
	case time.Time:
		return v.UTC()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}

func decimalValue(d decimal.Decimal) string {
	return d.String()
}
