package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de precios.
// Price y DealerPrice son nil cuando el documento no contiene un número válido;
// en ese caso no se recalculan.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       *decimal.Decimal
	DealerPrice *decimal.Decimal
	UpdatedAt   time.Time
}
