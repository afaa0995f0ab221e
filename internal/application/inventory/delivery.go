package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// DeliveryInput entrada de DeliverFinishedGoods.
type DeliveryInput struct {
	RecipeID string
	Quantity decimal.Decimal
	// UnitPrice fija el precio de venta; nil lo resuelve desde el catálogo
	// (por ProductID de la receta o, si no tiene, por nombre de producto).
	UnitPrice *decimal.Decimal
}

// DeliveryResult receta actualizada y registro de ingreso creado en la misma transacción.
type DeliveryResult struct {
	Recipe    *entity.FinishedGoodRecord
	Record    *entity.FinancialRecord
	UnitPrice decimal.Decimal
	ProductID string // producto del catálogo usado para el precio; vacío si vino en la entrada
}

// DeliverFinishedGoods descuenta quantity del stock terminado de la receta y registra un
// ingreso por UnitPrice × quantity. Lee stock y precio dentro de la misma transacción en
// que escribe, de modo que dos entregas concurrentes no pasan ambas la verificación de stock.
func (c *TransactionCoordinator) DeliverFinishedGoods(ctx context.Context, in DeliveryInput) (*DeliveryResult, error) {
	const op = "deliver_finished_goods"
	if !in.Quantity.IsPositive() {
		return nil, c.fail(op, fmt.Errorf("%w: la cantidad a entregar debe ser mayor a cero", domain.ErrValidation))
	}
	if err := inventory.CheckWholeUnits("cantidad a entregar", in.Quantity); err != nil {
		return nil, c.fail(op, err)
	}
	if in.UnitPrice != nil && !in.UnitPrice.IsPositive() {
		return nil, c.fail(op, fmt.Errorf("%w: el precio unitario debe ser mayor a cero", domain.ErrValidation))
	}

	var res *DeliveryResult
	err := c.store.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		res = nil // el driver puede reintentar fn
		recipes := docstore.NewRecipeStore(tx)
		catalog := docstore.NewProductCatalog(tx)
		finance := docstore.NewFinancialLedger(tx)

		recipe, err := recipes.Get(ctx, in.RecipeID)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(recipe.StockFinished) {
			return fmt.Errorf("%w: %s tiene %s terminados, se solicitaron %s",
				domain.ErrInsufficientStock, recipe.ProductName, recipe.StockFinished, in.Quantity)
		}
		price, productID, err := resolveUnitPrice(ctx, catalog, recipe, in.UnitPrice)
		if err != nil {
			return err
		}

		now := c.store.Now()
		recipe.StockFinished = recipe.StockFinished.Sub(in.Quantity)
		recipes.StageStockFinished(tx, recipe, now)

		rec := &entity.FinancialRecord{
			Amount:   price.Mul(in.Quantity),
			Concept:  deliveryConcept(in.Quantity, recipe.ProductName),
			Date:     now,
			Kind:     entity.FinancialKindIncome,
			RecipeID: recipe.ID,
			Quantity: in.Quantity,
		}
		if err := finance.Append(tx, rec); err != nil {
			return err
		}
		res = &DeliveryResult{Recipe: recipe, Record: rec, UnitPrice: price, ProductID: productID}
		return nil
	})
	if err != nil {
		return nil, c.fail(op, err)
	}
	c.log.Info().
		Str("op", op).
		Str("recipe_id", res.Recipe.ID).
		Str("quantity", in.Quantity.String()).
		Str("amount", res.Record.Amount.String()).
		Str("stock_finished", res.Recipe.StockFinished.String()).
		Msg("entrega registrada")
	return res, nil
}

// resolveUnitPrice devuelve el precio explícito o el del producto del catálogo asociado a la receta.
func resolveUnitPrice(ctx context.Context, catalog *docstore.ProductCatalog, recipe *entity.FinishedGoodRecord, explicit *decimal.Decimal) (decimal.Decimal, string, error) {
	if explicit != nil {
		return *explicit, "", nil
	}
	var product *entity.Product
	if recipe.ProductID != "" {
		p, err := catalog.Get(ctx, recipe.ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return decimal.Zero, "", err
		}
		product = p
	} else {
		p, err := catalog.FindByName(ctx, recipe.ProductName)
		if err != nil {
			return decimal.Zero, "", err
		}
		product = p
	}
	if product == nil {
		return decimal.Zero, "", fmt.Errorf("%w: no hay producto para %q", domain.ErrUnknownPrice, recipe.ProductName)
	}
	if product.Price == nil || !product.Price.IsPositive() {
		return decimal.Zero, "", fmt.Errorf("%w: el producto %q no tiene un precio válido", domain.ErrUnknownPrice, product.Name)
	}
	return *product.Price, product.ID, nil
}

func deliveryConcept(quantity decimal.Decimal, productName string) string {
	unit := "unidades"
	if quantity.Equal(decimal.NewFromInt(1)) {
		unit = "unidad"
	}
	return fmt.Sprintf("Entrega de %s %s de %s", quantity.String(), unit, productName)
}
