package dto

import "github.com/shopspring/decimal"

// BulkPriceRequest body para POST /api/pricing/bulk/preview y /apply.
// Filter: all | category | product.
type BulkPriceRequest struct {
	Filter     string `json:"filter"`
	Category   string `json:"category,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
	Percentage string `json:"percentage,omitempty"`
}

// PriceChangeDTO precios de un producto antes y después del ajuste.
// Un precio nil es inválido en el catálogo y no se modifica.
type PriceChangeDTO struct {
	ProductID      string           `json:"product_id"`
	Name           string           `json:"name"`
	Category       string           `json:"category,omitempty"`
	Price          *decimal.Decimal `json:"price"`
	NewPrice       *decimal.Decimal `json:"new_price,omitempty"`
	DealerPrice    *decimal.Decimal `json:"dealer_price"`
	NewDealerPrice *decimal.Decimal `json:"new_dealer_price,omitempty"`
}

// BulkPriceResponse resultado de la vista previa o de la aplicación.
type BulkPriceResponse struct {
	Count    int              `json:"count"`
	Applied  bool             `json:"applied"`
	Products []PriceChangeDTO `json:"products"`
}
