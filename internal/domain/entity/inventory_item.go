package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa una materia prima o insumo con stock propio.
// Stock solo cambia a través del coordinador de transacciones; cada cambio deja un MovementRecord.
type InventoryItem struct {
	ID           string
	Name         string
	NameKey      string // nombre normalizado (trim + case fold), único
	SKU          string
	Category     string
	Unit         string
	Stock        decimal.Decimal
	StockMinimum decimal.Decimal
	CostPerUnit  decimal.Decimal
	SupplierName string
	// InitialStock es la base de conciliación: stock que el ítem tenía sin movimiento asociado.
	InitialStock decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
