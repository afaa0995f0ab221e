package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/pricing"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
)

var t0 = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New(memstore.WithClock(func() time.Time { return t0.Add(time.Hour) }))
	docs := map[string]repository.Document{
		"s1": {"name": "Sembradora SD-2", "category": "Sembradoras", "price": "1000", "dealerPrice": "850", "updatedAt": t0},
		"s2": {"name": "Sembradora SD-4", "category": "Sembradoras", "price": 2500.5, "updatedAt": t0},
		"s3": {"name": "Sembradora Neumática", "category": "Sembradoras", "price": "3300", "dealerPrice": "3000", "updatedAt": t0},
		"s4": {"name": "Sembradora Manual", "category": "Sembradoras", "price": "no disponible", "updatedAt": t0},
		"r1": {"name": "Rastra 3m", "category": "Rastras", "price": "900", "dealerPrice": "800", "updatedAt": t0},
		"c1": {"name": "Cultivadora", "category": "Cultivadoras", "price": 1200, "updatedAt": t0},
	}
	for id, doc := range docs {
		require.NoError(t, s.Set(ctx, docstore.CollectionProducts, id, doc))
	}
	return s
}

func snapshot(t *testing.T, s *memstore.Store, id string) repository.Document {
	t.Helper()
	snap, err := s.Get(context.Background(), docstore.CollectionProducts, id)
	require.NoError(t, err)
	return snap.Data
}

func TestApply_PorCategoriaSoloTocaObjetivo(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	engine := pricing.NewBulkPriceEngine(s, nil)
	before := map[string]repository.Document{
		"r1": snapshot(t, s, "r1"),
		"c1": snapshot(t, s, "c1"),
	}
	commits := s.Commits()

	updated, err := engine.Apply(ctx, pricing.PriceFilter{Kind: pricing.FilterCategory, Category: "Sembradoras"}, "10")
	require.NoError(t, err)
	assert.Len(t, updated, 4)
	assert.Equal(t, commits+1, s.Commits(), "un único lote atómico")

	catalog := docstore.NewProductCatalog(s)
	s1, err := catalog.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, s1.Price.Equal(decimal.NewFromInt(1100)))
	assert.True(t, s1.DealerPrice.Equal(decimal.NewFromInt(935)))

	s2, err := catalog.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, s2.Price.Equal(decimal.RequireFromString("2750.55")))
	assert.Nil(t, s2.DealerPrice)

	s3, err := catalog.Get(ctx, "s3")
	require.NoError(t, err)
	assert.True(t, s3.Price.Equal(decimal.NewFromInt(3630)))

	// precio inválido: no se modifica
	assert.Equal(t, "no disponible", snapshot(t, s, "s4")["price"])

	for id, doc := range before {
		assert.Equal(t, doc, snapshot(t, s, id), "producto %s fuera del filtro", id)
	}
}

func TestApply_PorcentajeFraccionarioSigueLaFormulaExacta(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	require.NoError(t, s.Set(ctx, docstore.CollectionProducts, "x1", repository.Document{"name": "Arandela", "category": "Repuestos", "price": "1", "updatedAt": t0}))
	require.NoError(t, s.Set(ctx, docstore.CollectionProducts, "x2", repository.Document{"name": "Chaveta", "category": "Repuestos", "price": "0.125", "dealerPrice": "0.004", "updatedAt": t0}))
	before := snapshot(t, s, "r1")
	engine := pricing.NewBulkPriceEngine(s, nil)

	pct := decimal.RequireFromString("0.1")
	factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))
	_, err := engine.Apply(ctx, pricing.PriceFilter{Kind: pricing.FilterCategory, Category: "Repuestos"}, "0.1")
	require.NoError(t, err)

	catalog := docstore.NewProductCatalog(s)
	x1, err := catalog.Get(ctx, "x1")
	require.NoError(t, err)
	assert.True(t, x1.Price.Equal(decimal.NewFromInt(1).Mul(factor)), "obtuvo %s", x1.Price)
	assert.True(t, x1.Price.Equal(decimal.RequireFromString("1.001")))

	x2, err := catalog.Get(ctx, "x2")
	require.NoError(t, err)
	assert.True(t, x2.Price.Equal(decimal.RequireFromString("0.125125")), "obtuvo %s", x2.Price)
	require.NotNil(t, x2.DealerPrice)
	assert.True(t, x2.DealerPrice.Equal(decimal.RequireFromString("0.004004")), "obtuvo %s", x2.DealerPrice)

	assert.Equal(t, before, snapshot(t, s, "r1"))
}

func TestApply_PorProductoYTodos(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	engine := pricing.NewBulkPriceEngine(s, nil)

	one, err := engine.Apply(ctx, pricing.PriceFilter{Kind: pricing.FilterProduct, ProductID: "r1"}, "-50")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.True(t, one[0].Price.Equal(decimal.NewFromInt(450)))
	assert.True(t, one[0].DealerPrice.Equal(decimal.NewFromInt(400)))

	all, err := engine.Apply(ctx, pricing.PriceFilter{Kind: pricing.FilterAll}, "0")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestApply_Validaciones(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	engine := pricing.NewBulkPriceEngine(s, nil)
	commits := s.Commits()

	cases := []struct {
		name   string
		filter pricing.PriceFilter
		pct    string
		want   error
	}{
		{"porcentaje no numérico", pricing.PriceFilter{Kind: pricing.FilterAll}, "diez", domain.ErrValidation},
		{"porcentaje vacío", pricing.PriceFilter{Kind: pricing.FilterAll}, " ", domain.ErrValidation},
		{"porcentaje menor a -100", pricing.PriceFilter{Kind: pricing.FilterAll}, "-101", domain.ErrValidation},
		{"categoría sin productos", pricing.PriceFilter{Kind: pricing.FilterCategory, Category: "Tractores"}, "5", domain.ErrValidation},
		{"categoría vacía", pricing.PriceFilter{Kind: pricing.FilterCategory}, "5", domain.ErrValidation},
		{"filtro desconocido", pricing.PriceFilter{Kind: "marca"}, "5", domain.ErrValidation},
		{"producto inexistente", pricing.PriceFilter{Kind: pricing.FilterProduct, ProductID: "zz"}, "5", domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Apply(ctx, tc.filter, tc.pct)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, commits, s.Commits())
}

func TestApply_FallaDelAlmacenNoAplicaNada(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	engine := pricing.NewBulkPriceEngine(s, nil)
	before := snapshot(t, s, "s1")

	s.FailCommits(errors.New("timeout"))
	_, err := engine.Apply(ctx, pricing.PriceFilter{Kind: pricing.FilterAll}, "10")
	assert.ErrorIs(t, err, domain.ErrStore)
	s.FailCommits(nil)

	assert.Equal(t, before, snapshot(t, s, "s1"))
}

func TestPreviewFromRequest_NoModifica(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	engine := pricing.NewBulkPriceEngine(s, nil)
	commits := s.Commits()

	res, err := engine.PreviewFromRequest(ctx, dto.BulkPriceRequest{Filter: "category", Category: "Rastras", Percentage: "10"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.Applied)
	require.Len(t, res.Products, 1)
	assert.True(t, res.Products[0].Price.Equal(decimal.NewFromInt(900)))
	require.NotNil(t, res.Products[0].NewPrice)
	assert.True(t, res.Products[0].NewPrice.Equal(decimal.NewFromInt(990)))
	assert.Equal(t, commits, s.Commits())
}
