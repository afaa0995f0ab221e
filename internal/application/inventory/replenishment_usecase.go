package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// ReplenishmentUseCase genera la lista de reposición de ítems con stock bajo el mínimo.
type ReplenishmentUseCase struct {
	store repository.Reader
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(store repository.Reader) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{store: store}
}

// GenerateReplenishmentList devuelve los ítems con stock <= stock mínimo, con la cantidad
// sugerida de pedido y prioridad por déficit relativo al mínimo.
// Los ítems sin stock mínimo configurado (0) no se consideran.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := docstore.NewItemStore(uc.store).List(ctx)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	idealFactor := decimal.NewFromFloat(1.5)

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, item := range items {
		if !item.StockMinimum.IsPositive() || item.Stock.GreaterThan(item.StockMinimum) {
			continue
		}
		idealStock := item.StockMinimum.Mul(idealFactor)
		suggestedQty := idealStock.Sub(item.Stock)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}
		deficit := item.StockMinimum.Sub(item.Stock)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ID,
			SKU:                item.SKU,
			ItemName:           item.Name,
			Category:           item.Category,
			SupplierName:       item.SupplierName,
			CurrentStock:       item.Stock,
			StockMinimum:       item.StockMinimum,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.CostPerUnit,
			EstimatedOrderCost: suggestedQty.Mul(item.CostPerUnit),
			DeficitPct:         deficit.Div(item.StockMinimum).Mul(hundred).Round(2),
		})
	}

	// Ordenar: mayor déficit relativo primero; a igualdad, mayor costo estimado del pedido.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.DeficitPct.Equal(b.DeficitPct) {
			return a.DeficitPct.GreaterThan(b.DeficitPct)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})

	// Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
