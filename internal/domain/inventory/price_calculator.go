package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyPercentage aplica un cambio porcentual a un precio, sin redondeo:
// NuevoPrecio = Precio * (1 + Porcentaje/100) = Precio * (100 + Porcentaje) / 100.
// Un porcentaje negativo reduce el precio; -100 lo lleva a cero.
// El redondeo a la moneda es cosa de la presentación (PDF, respuestas HTTP).
func ApplyPercentage(price, percentage decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Add(percentage)).Shift(-2)
}
