package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest body para POST /api/inventory/restock (alta o reposición por nombre).
type RestockRequest struct {
	Name         string           `json:"name"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	SupplierName string           `json:"supplier_name,omitempty"`
	SKU          string           `json:"sku,omitempty"`
	Category     string           `json:"category,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	StockMinimum decimal.Decimal  `json:"stock_minimum"`
}

// CreateItemRequest body para POST /api/inventory/items.
type CreateItemRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimum decimal.Decimal `json:"stock_minimum"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	SupplierName string          `json:"supplier_name,omitempty"`
}

// EgressRequest body para POST /api/inventory/items/:id/egress.
type EgressRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/items/:id/adjustment.
// Los valores llegan como texto desde el formulario de ajuste.
type AdjustmentRequest struct {
	NewStock       string `json:"new_stock"`
	NewCostPerUnit string `json:"new_cost_per_unit"`
	Reason         string `json:"reason,omitempty"`
}

// DeliveryRequest body para POST /api/recipes/:id/deliveries.
type DeliveryRequest struct {
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// ItemResponse ítem de inventario en respuestas.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimum decimal.Decimal `json:"stock_minimum"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	SupplierName string          `json:"supplier_name,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse movimiento de stock en respuestas.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	UnitCostAtTime decimal.Decimal `json:"unit_cost_at_time"`
	Timestamp      time.Time       `json:"timestamp"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// MovementResultResponse respuesta de alta/reposición, salida y ajuste.
// Movement es nil cuando la operación no cambió el stock.
type MovementResultResponse struct {
	Item     ItemResponse      `json:"item"`
	Movement *MovementResponse `json:"movement,omitempty"`
	Created  bool              `json:"created"`
}

// DeliveryResponse respuesta de una entrega de terminados.
type DeliveryResponse struct {
	RecipeID      string          `json:"recipe_id"`
	ProductName   string          `json:"product_name"`
	StockFinished decimal.Decimal `json:"stock_finished"`
	RecordID      string          `json:"record_id"`
	Amount        decimal.Decimal `json:"amount"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Concept       string          `json:"concept"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un ítem
// que se encuentra en o por debajo de su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku,omitempty"`
	ItemName           string          `json:"item_name"`
	Category           string          `json:"category,omitempty"`
	SupplierName       string          `json:"supplier_name,omitempty"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	StockMinimum       decimal.Decimal `json:"stock_minimum"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // StockMinimum * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	DeficitPct         decimal.Decimal `json:"deficit_pct"`          // (mínimo - actual) / mínimo * 100
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// RecipeResponse receta de producto terminado en respuestas.
type RecipeResponse struct {
	ID            string          `json:"id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku,omitempty"`
	ProductID     string          `json:"product_id,omitempty"`
	StockFinished decimal.Decimal `json:"stock_finished"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
