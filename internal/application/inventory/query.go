package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// QueryUseCase lecturas de ítems y recetas para la API.
type QueryUseCase struct {
	store repository.Reader
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(store repository.Reader) *QueryUseCase {
	return &QueryUseCase{store: store}
}

// GetItem devuelve un ítem por ID; ErrNotFound si no existe.
func (uc *QueryUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := docstore.NewItemStore(uc.store).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToItemResponse(item)
	return &out, nil
}

// ListItems devuelve todos los ítems ordenados por nombre.
func (uc *QueryUseCase) ListItems(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := docstore.NewItemStore(uc.store).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToItemResponse(item))
	}
	return out, nil
}

// ListRecipes devuelve las recetas con su stock de terminados.
func (uc *QueryUseCase) ListRecipes(ctx context.Context) ([]dto.RecipeResponse, error) {
	recipes, err := docstore.NewRecipeStore(uc.store).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, dto.RecipeResponse{
			ID:            r.ID,
			ProductName:   r.ProductName,
			SKU:           r.SKU,
			ProductID:     r.ProductID,
			StockFinished: r.StockFinished,
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return out, nil
}

// ListMovements historial de un ítem convertido a DTO.
func (uc *QueryUseCase) ListMovements(ctx context.Context, itemID string) ([]dto.MovementResponse, error) {
	if _, err := docstore.NewItemStore(uc.store).Get(ctx, itemID); err != nil {
		return nil, err
	}
	movs, err := docstore.NewMovementLedger(uc.store).ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, ToMovementResponse(m))
	}
	return out, nil
}
