package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinishedGoodRecord (receta) es un producto ensamblado con stock de unidades terminadas,
// distinto del stock de materias primas.
type FinishedGoodRecord struct {
	ID            string
	ProductName   string
	SKU           string
	ProductID     string // referencia explícita opcional al catálogo de precios
	StockFinished decimal.Decimal
	UpdatedAt     time.Time
}
