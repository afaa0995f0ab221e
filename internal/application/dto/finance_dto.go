package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialRecordResponse registro financiero en respuestas.
type FinancialRecordResponse struct {
	ID       string           `json:"id"`
	Amount   decimal.Decimal  `json:"amount"`
	Concept  string           `json:"concept"`
	Date     time.Time        `json:"date"`
	Kind     string           `json:"kind"`
	RecipeID string           `json:"recipe_id,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}
