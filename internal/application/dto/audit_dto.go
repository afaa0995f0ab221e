package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAlertDTO cuerpo enviado al webhook cuando la auditoría encuentra descuadres o ítems bajo el mínimo.
type AuditAlertDTO struct {
	Service     string                       `json:"service"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Checked     int                          `json:"checked"`
	Unbalanced  []UnbalancedItemDTO          `json:"unbalanced"`
	LowStock    []ReplenishmentSuggestionDTO `json:"low_stock"`
}

// UnbalancedItemDTO ítem cuyo stock no coincide con el reconstruido desde sus movimientos.
type UnbalancedItemDTO struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}
