package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// RecipeStore acceso a productos terminados (recetas). El stock terminado solo lo
// modifican las entregas; la producción se registra fuera de este motor.
type RecipeStore struct {
	r repository.Reader
}

// NewRecipeStore construye el almacén de recetas. Pasar el almacén o una transacción (Reader).
func NewRecipeStore(r repository.Reader) *RecipeStore {
	return &RecipeStore{r: r}
}

// Get obtiene una receta por ID; ErrNotFound si no existe.
func (s *RecipeStore) Get(ctx context.Context, id string) (*entity.FinishedGoodRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id de la receta requerido", domain.ErrValidation)
	}
	snap, err := s.r.Get(ctx, CollectionRecipes, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipeFromDoc(snap), nil
}

// List devuelve todas las recetas ordenadas por nombre de producto.
func (s *RecipeStore) List(ctx context.Context) ([]*entity.FinishedGoodRecord, error) {
	snaps, err := s.r.Query(ctx, CollectionRecipes)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	list := make([]*entity.FinishedGoodRecord, 0, len(snaps))
	for _, snap := range snaps {
		list = append(list, recipeFromDoc(snap))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ProductName < list[j].ProductName })
	return list, nil
}

// StageStockFinished agrega a w la actualización del stock terminado.
func (s *RecipeStore) StageStockFinished(w repository.Writer, recipe *entity.FinishedGoodRecord, now time.Time) {
	recipe.UpdatedAt = now
	w.Update(CollectionRecipes, recipe.ID, repository.Document{
		"stockFinished": decimalValue(recipe.StockFinished),
		"updatedAt":     now,
	})
}

// RecipeDocument documento completo de una receta; lo usa el importador de catálogo.
func RecipeDocument(recipe *entity.FinishedGoodRecord) repository.Document {
	doc := repository.Document{
		"productName":   recipe.ProductName,
		"sku":           recipe.SKU,
		"stockFinished": decimalValue(recipe.StockFinished),
		"updatedAt":     recipe.UpdatedAt,
	}
	if recipe.ProductID != "" {
		doc["productId"] = recipe.ProductID
	}
	return doc
}

func recipeFromDoc(snap repository.Snapshot) *entity.FinishedGoodRecord {
	d := snap.Data
	return &entity.FinishedGoodRecord{
		ID:            snap.ID,
		ProductName:   str(d, "productName"),
		SKU:           str(d, "sku"),
		ProductID:     str(d, "productId"),
		StockFinished: num(d, "stockFinished"),
		UpdatedAt:     timestamp(d, "updatedAt"),
	}
}
