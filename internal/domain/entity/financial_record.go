package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro financiero.
const (
	FinancialKindIncome  = "income"
	FinancialKindExpense = "expense"
)

// FinancialRecord es un ingreso o egreso contable.
type FinancialRecord struct {
	ID       string
	Amount   decimal.Decimal
	Concept  string
	Date     time.Time
	Kind     string
	RecipeID string          // origen cuando proviene de una entrega
	Quantity decimal.Decimal // unidades entregadas, si aplica
}
