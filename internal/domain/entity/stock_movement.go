package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementKindEntry = "entry" // entrada
	MovementKindExit  = "exit"  // salida
)

// Motivos estándar de los movimientos generados por el motor.
const (
	ReasonInitialStock = "Stock Inicial"
	ReasonRestock      = "Adición de Stock"
	ReasonManualEgress = "Salida manual"
	ReasonAdjustPrefix = "Ajuste manual: "
)

// MovementRecord es una entrada inmutable del libro de movimientos.
// Quantity siempre es positiva; el signo lo da Kind.
type MovementRecord struct {
	ID             string
	ItemID         string
	ItemName       string // copia del nombre al momento del movimiento
	Kind           string
	Quantity       decimal.Decimal
	Reason         string
	SupplierName   string // solo en entradas
	UnitCostAtTime decimal.Decimal
	Timestamp      time.Time
	CreatedBy      string
}

// SignedQuantity devuelve la cantidad con signo: positiva en entradas, negativa en salidas.
func (m MovementRecord) SignedQuantity() decimal.Decimal {
	if m.Kind == MovementKindExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
