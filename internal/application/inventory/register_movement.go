package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// RestockInput entrada de AddOrRestock. Los campos de ítem nuevo (SKU, Category, Unit,
// StockMinimum) solo se usan si el nombre no existe todavía.
type RestockInput struct {
	Name         string
	Quantity     decimal.Decimal
	UnitCost     *decimal.Decimal // nil conserva el costo actual
	SupplierName string
	SKU          string
	Category     string
	Unit         string
	StockMinimum decimal.Decimal
	OperatorID   string
}

// EgressInput entrada de ManualEgress.
type EgressInput struct {
	ItemID     string
	Quantity   decimal.Decimal
	Reason     string // vacío usa "Salida manual"
	OperatorID string
}

// AdjustmentInput entrada de Adjustment. Los valores numéricos llegan como texto
// desde el formulario y deben ser números válidos.
type AdjustmentInput struct {
	ItemID         string
	NewStock       string
	NewCostPerUnit string
	Reason         string
	OperatorID     string
}

// CreateItemInput entrada de CreateItem: registro directo de un ítem con stock existente,
// sin movimiento asociado (el stock declarado pasa a ser la base de conciliación).
type CreateItemInput struct {
	Name         string
	SKU          string
	Category     string
	Unit         string
	Stock        decimal.Decimal
	StockMinimum decimal.Decimal
	CostPerUnit  decimal.Decimal
	SupplierName string
}

// AddOrRestock da de alta el ítem si su nombre normalizado no existe, o suma quantity
// a su stock si existe. Con quantity > 0 registra una entrada ("Stock Inicial" o
// "Adición de Stock"); con quantity = 0 no registra movimiento.
func (c *TransactionCoordinator) AddOrRestock(ctx context.Context, in RestockInput) (*MovementResult, error) {
	const op = "add_or_restock"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, c.fail(op, fmt.Errorf("%w: nombre requerido", domain.ErrValidation))
	}
	if in.Quantity.IsNegative() {
		return nil, c.fail(op, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrValidation))
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, c.fail(op, fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrValidation))
	}

	items := docstore.NewItemStore(c.store)
	ledger := docstore.NewMovementLedger(c.store)
	existing, err := items.FindByName(ctx, name)
	if err != nil {
		return nil, c.fail(op, err)
	}

	now := c.store.Now()
	b := repository.NewBatch()
	res := &MovementResult{}
	reason := entity.ReasonRestock

	if existing != nil {
		updated, err := inventory.ApplyStockDelta(*existing, in.Quantity, in.UnitCost)
		if err != nil {
			return nil, c.fail(op, err)
		}
		items.StageStock(b, &updated, now)
		res.Item = &updated
	} else {
		item := &entity.InventoryItem{
			Name:         name,
			SKU:          strings.TrimSpace(in.SKU),
			Category:     strings.TrimSpace(in.Category),
			Unit:         strings.TrimSpace(in.Unit),
			Stock:        in.Quantity,
			StockMinimum: in.StockMinimum,
			SupplierName: strings.TrimSpace(in.SupplierName),
			InitialStock: decimal.Zero, // la cantidad inicial queda en el libro como "Stock Inicial"
		}
		if in.UnitCost != nil {
			item.CostPerUnit = *in.UnitCost
		}
		if err := items.Create(ctx, b, item, now); err != nil {
			return nil, c.fail(op, err)
		}
		res.Item = item
		res.Created = true
		reason = entity.ReasonInitialStock
	}

	if in.Quantity.IsPositive() {
		mov := &entity.MovementRecord{
			ItemID:         res.Item.ID,
			ItemName:       res.Item.Name,
			Kind:           entity.MovementKindEntry,
			Quantity:       in.Quantity,
			Reason:         reason,
			SupplierName:   strings.TrimSpace(in.SupplierName),
			UnitCostAtTime: res.Item.CostPerUnit,
			Timestamp:      now,
			CreatedBy:      in.OperatorID,
		}
		if err := ledger.Append(b, mov); err != nil {
			return nil, c.fail(op, err)
		}
		res.Movement = mov
	}

	if err := c.commit(ctx, b); err != nil {
		return nil, c.fail(op, err)
	}
	c.log.Info().
		Str("op", op).
		Str("item_id", res.Item.ID).
		Str("quantity", in.Quantity.String()).
		Str("stock", res.Item.Stock.String()).
		Bool("created", res.Created).
		Msg("stock agregado")
	return res, nil
}

// ManualEgress descuenta quantity del stock del ítem y registra una salida.
// Falla con ErrInsufficientStock, sin modificar nada, si quantity supera el stock.
func (c *TransactionCoordinator) ManualEgress(ctx context.Context, in EgressInput) (*MovementResult, error) {
	const op = "manual_egress"
	if !in.Quantity.IsPositive() {
		return nil, c.fail(op, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrValidation))
	}
	items := docstore.NewItemStore(c.store)
	ledger := docstore.NewMovementLedger(c.store)

	item, err := items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, c.fail(op, err)
	}
	if in.Quantity.GreaterThan(item.Stock) {
		return nil, c.fail(op, fmt.Errorf("%w: %s tiene %s, se solicitaron %s",
			domain.ErrInsufficientStock, item.Name, item.Stock, in.Quantity))
	}
	updated, err := inventory.ApplyStockDelta(*item, in.Quantity.Neg(), nil)
	if err != nil {
		return nil, c.fail(op, err)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.ReasonManualEgress
	}
	now := c.store.Now()
	b := repository.NewBatch()
	items.StageStock(b, &updated, now)
	mov := &entity.MovementRecord{
		ItemID:         updated.ID,
		ItemName:       updated.Name,
		Kind:           entity.MovementKindExit,
		Quantity:       in.Quantity,
		Reason:         reason,
		UnitCostAtTime: updated.CostPerUnit,
		Timestamp:      now,
		CreatedBy:      in.OperatorID,
	}
	if err := ledger.Append(b, mov); err != nil {
		return nil, c.fail(op, err)
	}
	if err := c.commit(ctx, b); err != nil {
		return nil, c.fail(op, err)
	}
	c.log.Info().
		Str("op", op).
		Str("item_id", updated.ID).
		Str("quantity", in.Quantity.String()).
		Str("stock", updated.Stock.String()).
		Msg("salida registrada")
	return &MovementResult{Item: &updated, Movement: mov}, nil
}

// Adjustment fija stock y costo unitario en una sola escritura. Si el stock cambia registra
// un movimiento por la diferencia (entrada si sube, salida si baja) con motivo
// "Ajuste manual: <motivo>"; si no cambia no registra movimiento aunque cambie el costo.
func (c *TransactionCoordinator) Adjustment(ctx context.Context, in AdjustmentInput) (*MovementResult, error) {
	const op = "adjustment"
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, c.fail(op, fmt.Errorf("%w: el motivo del ajuste es obligatorio", domain.ErrValidation))
	}
	newStock, err := inventory.ParseNumber("nuevo stock", in.NewStock)
	if err != nil {
		return nil, c.fail(op, err)
	}
	newCost, err := inventory.ParseNumber("nuevo costo unitario", in.NewCostPerUnit)
	if err != nil {
		return nil, c.fail(op, err)
	}
	if newStock.IsNegative() || newCost.IsNegative() {
		return nil, c.fail(op, fmt.Errorf("%w: stock y costo no pueden ser negativos", domain.ErrValidation))
	}

	items := docstore.NewItemStore(c.store)
	ledger := docstore.NewMovementLedger(c.store)
	item, err := items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, c.fail(op, err)
	}
	delta := newStock.Sub(item.Stock)
	updated, err := inventory.ApplyStockDelta(*item, delta, &newCost)
	if err != nil {
		return nil, c.fail(op, err)
	}

	now := c.store.Now()
	b := repository.NewBatch()
	items.StageStock(b, &updated, now)
	res := &MovementResult{Item: &updated}
	if !delta.IsZero() {
		kind := entity.MovementKindEntry
		if delta.IsNegative() {
			kind = entity.MovementKindExit
		}
		mov := &entity.MovementRecord{
			ItemID:         updated.ID,
			ItemName:       updated.Name,
			Kind:           kind,
			Quantity:       delta.Abs(),
			Reason:         entity.ReasonAdjustPrefix + reason,
			UnitCostAtTime: newCost,
			Timestamp:      now,
			CreatedBy:      in.OperatorID,
		}
		if err := ledger.Append(b, mov); err != nil {
			return nil, c.fail(op, err)
		}
		res.Movement = mov
	}
	if err := c.commit(ctx, b); err != nil {
		return nil, c.fail(op, err)
	}
	c.log.Info().
		Str("op", op).
		Str("item_id", updated.ID).
		Str("delta", delta.String()).
		Str("cost_per_unit", newCost.String()).
		Msg("ajuste aplicado")
	return res, nil
}

// CreateItem registra un ítem con su stock actual sin generar movimiento.
func (c *TransactionCoordinator) CreateItem(ctx context.Context, in CreateItemInput) (*entity.InventoryItem, error) {
	const op = "create_item"
	item := &entity.InventoryItem{
		Name:         in.Name,
		SKU:          strings.TrimSpace(in.SKU),
		Category:     strings.TrimSpace(in.Category),
		Unit:         strings.TrimSpace(in.Unit),
		Stock:        in.Stock,
		StockMinimum: in.StockMinimum,
		CostPerUnit:  in.CostPerUnit,
		SupplierName: strings.TrimSpace(in.SupplierName),
		InitialStock: in.Stock,
	}
	b := repository.NewBatch()
	if err := docstore.NewItemStore(c.store).Create(ctx, b, item, c.store.Now()); err != nil {
		return nil, c.fail(op, err)
	}
	if err := c.commit(ctx, b); err != nil {
		return nil, c.fail(op, err)
	}
	c.log.Info().Str("op", op).Str("item_id", item.ID).Str("stock", item.Stock.String()).Msg("ítem registrado")
	return item, nil
}
