package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RestockFromRequest adapta el body HTTP a AddOrRestock.
func (c *TransactionCoordinator) RestockFromRequest(ctx context.Context, operatorID string, req dto.RestockRequest) (*dto.MovementResultResponse, error) {
	res, err := c.AddOrRestock(ctx, RestockInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		SupplierName: req.SupplierName,
		SKU:          req.SKU,
		Category:     req.Category,
		Unit:         req.Unit,
		StockMinimum: req.StockMinimum,
		OperatorID:   operatorID,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResultResponse(res), nil
}

// EgressFromRequest adapta el body HTTP a ManualEgress.
func (c *TransactionCoordinator) EgressFromRequest(ctx context.Context, operatorID, itemID string, req dto.EgressRequest) (*dto.MovementResultResponse, error) {
	res, err := c.ManualEgress(ctx, EgressInput{
		ItemID:     itemID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		OperatorID: operatorID,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResultResponse(res), nil
}

// AdjustmentFromRequest adapta el body HTTP a Adjustment.
func (c *TransactionCoordinator) AdjustmentFromRequest(ctx context.Context, operatorID, itemID string, req dto.AdjustmentRequest) (*dto.MovementResultResponse, error) {
	res, err := c.Adjustment(ctx, AdjustmentInput{
		ItemID:         itemID,
		NewStock:       req.NewStock,
		NewCostPerUnit: req.NewCostPerUnit,
		Reason:         req.Reason,
		OperatorID:     operatorID,
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResultResponse(res), nil
}

// CreateItemFromRequest adapta el body HTTP a CreateItem.
func (c *TransactionCoordinator) CreateItemFromRequest(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item, err := c.CreateItem(ctx, CreateItemInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Unit:         req.Unit,
		Stock:        req.Stock,
		StockMinimum: req.StockMinimum,
		CostPerUnit:  req.CostPerUnit,
		SupplierName: req.SupplierName,
	})
	if err != nil {
		return nil, err
	}
	out := ToItemResponse(item)
	return &out, nil
}

// DeliveryFromRequest adapta el body HTTP a DeliverFinishedGoods.
func (c *TransactionCoordinator) DeliveryFromRequest(ctx context.Context, recipeID string, req dto.DeliveryRequest) (*dto.DeliveryResponse, error) {
	res, err := c.DeliverFinishedGoods(ctx, DeliveryInput{
		RecipeID:  recipeID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeliveryResponse{
		RecipeID:      res.Recipe.ID,
		ProductName:   res.Recipe.ProductName,
		StockFinished: res.Recipe.StockFinished,
		RecordID:      res.Record.ID,
		Amount:        res.Record.Amount,
		UnitPrice:     res.UnitPrice,
		Concept:       res.Record.Concept,
	}, nil
}

// ToItemResponse convierte la entidad al DTO de respuesta.
func ToItemResponse(item *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		SKU:          item.SKU,
		Category:     item.Category,
		Unit:         item.Unit,
		Stock:        item.Stock,
		StockMinimum: item.StockMinimum,
		CostPerUnit:  item.CostPerUnit,
		SupplierName: item.SupplierName,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ToMovementResponse convierte el movimiento al DTO de respuesta.
func ToMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		ItemName:       m.ItemName,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		Reason:         m.Reason,
		SupplierName:   m.SupplierName,
		UnitCostAtTime: m.UnitCostAtTime,
		Timestamp:      m.Timestamp,
		CreatedBy:      m.CreatedBy,
	}
}

// ToMovementResultResponse convierte el resultado de una operación de stock.
func ToMovementResultResponse(res *MovementResult) *dto.MovementResultResponse {
	out := &dto.MovementResultResponse{Item: ToItemResponse(res.Item), Created: res.Created}
	if res.Movement != nil {
		m := ToMovementResponse(res.Movement)
		out.Movement = &m
	}
	return out
}
