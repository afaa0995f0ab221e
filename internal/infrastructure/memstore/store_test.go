package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
)

func TestRunAtomic_TodoONada(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, "items", "a", repository.Document{"name": "A", "stock": "1"}))

	err := s.RunAtomic(ctx, []repository.Write{
		{Kind: repository.WriteUpdate, Collection: "items", ID: "a", Data: repository.Document{"stock": "2"}},
		{Kind: repository.WriteCreate, Collection: "items", ID: "a", Data: repository.Document{"name": "dup"}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	snap, err := s.Get(ctx, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, "1", snap.Data["stock"], "la primera escritura no debe quedar aplicada")
}

func TestUpdate_DocumentoInexistente(t *testing.T) {
	s := memstore.New()
	err := s.Update(context.Background(), "items", "x", repository.Document{"stock": "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_FusionaCampos(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, "items", "a", repository.Document{"name": "A", "stock": "1"}))
	require.NoError(t, s.Update(ctx, "items", "a", repository.Document{"stock": "5"}))

	snap, err := s.Get(ctx, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, "A", snap.Data["name"])
	assert.Equal(t, "5", snap.Data["stock"])
}

func TestQuery_FiltraPorIgualdad(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, "products", "1", repository.Document{"category": "Sembradoras"}))
	require.NoError(t, s.Set(ctx, "products", "2", repository.Document{"category": "Tractores"}))
	require.NoError(t, s.Set(ctx, "products", "3", repository.Document{"category": "Sembradoras"}))

	out, err := s.Query(ctx, "products", repository.Eq("category", "Sembradoras"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)

	all, err := s.Query(ctx, "products")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGet_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, "items", "a", repository.Document{"stock": "1"}))

	snap, _ := s.Get(ctx, "items", "a")
	snap.Data["stock"] = "999"

	again, _ := s.Get(ctx, "items", "a")
	assert.Equal(t, "1", again.Data["stock"])
}

func TestRunTransaction_ErrorDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	boom := errors.New("boom")

	err := s.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		tx.Create("records", "r1", repository.Document{"amount": "10"})
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Count("records"))
}

func TestRunTransaction_LeeYEscribe(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, "recipes", "r", repository.Document{"stockFinished": "5"}))

	err := s.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		snap, err := tx.Get(ctx, "recipes", "r")
		if err != nil {
			return err
		}
		assert.Equal(t, "5", snap.Data["stockFinished"])
		tx.Update("recipes", "r", repository.Document{"stockFinished": "2"})
		tx.Create("records", "f1", repository.Document{"amount": "30000"})
		return nil
	})
	require.NoError(t, err)

	snap, _ := s.Get(ctx, "recipes", "r")
	assert.Equal(t, "2", snap.Data["stockFinished"])
	assert.Equal(t, 1, s.Count("records"))
}

func TestFailCommits(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	unavailable := errors.New("unavailable")
	s.FailCommits(unavailable)

	err := s.Set(ctx, "items", "a", repository.Document{"stock": "1"})
	assert.ErrorIs(t, err, unavailable)
	assert.Equal(t, 0, s.Count("items"))

	s.FailCommits(nil)
	require.NoError(t, s.Set(ctx, "items", "a", repository.Document{"stock": "1"}))
	assert.Equal(t, 1, s.Commits())
}

func TestNow_UsaReloj(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("COT", -5*3600))
	s := memstore.New(memstore.WithClock(func() time.Time { return fixed }))
	assert.Equal(t, fixed.UTC(), s.Now())
}
