package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createItem(t *testing.T, s *memstore.Store, item *entity.InventoryItem) {
	t.Helper()
	ctx := context.Background()
	b := repository.NewBatch()
	require.NoError(t, docstore.NewItemStore(s).Create(ctx, b, item, t0))
	require.NoError(t, s.RunAtomic(ctx, b.Writes()))
}

func TestItemStore_CreateYFindByName(t *testing.T) {
	s := memstore.New()
	item := &entity.InventoryItem{Name: " Tornillo M8 ", Stock: dec("10"), CostPerUnit: dec("2.5"), InitialStock: dec("10")}
	createItem(t, s, item)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Tornillo M8", item.Name)
	assert.Equal(t, "tornillo m8", item.NameKey)

	found, err := docstore.NewItemStore(s).FindByName(context.Background(), "TORNILLO m8")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, item.ID, found.ID)
	assert.True(t, found.Stock.Equal(dec("10")))
	assert.True(t, found.CostPerUnit.Equal(dec("2.5")))
	assert.Equal(t, t0, found.CreatedAt)

	missing, err := docstore.NewItemStore(s).FindByName(context.Background(), "tuerca")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemStore_CreateValida(t *testing.T) {
	s := memstore.New()
	items := docstore.NewItemStore(s)
	b := repository.NewBatch()

	err := items.Create(context.Background(), b, &entity.InventoryItem{Name: "  "}, t0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = items.Create(context.Background(), b, &entity.InventoryItem{Name: "Tuerca", Stock: dec("-1")}, t0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, b.Len())

	createItem(t, s, &entity.InventoryItem{Name: "Tuerca"})
	err = items.Create(context.Background(), b, &entity.InventoryItem{Name: "tuerca "}, t0)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemStore_GetInexistente(t *testing.T) {
	_, err := docstore.NewItemStore(memstore.New()).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementLedger_AppendValida(t *testing.T) {
	ledger := docstore.NewMovementLedger(memstore.New())
	b := repository.NewBatch()

	err := ledger.Append(b, &entity.MovementRecord{ItemID: "i", Kind: entity.MovementKindEntry, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = ledger.Append(b, &entity.MovementRecord{ItemID: "i", Kind: "transfer", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = ledger.Append(b, &entity.MovementRecord{ItemID: "i", Kind: entity.MovementKindExit, Quantity: dec("-3")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, b.Len())

	m := &entity.MovementRecord{ItemID: "i", Kind: entity.MovementKindExit, Quantity: dec("3"), SupplierName: "ignorado"}
	require.NoError(t, ledger.Append(b, m))
	assert.NotEmpty(t, m.ID)
	assert.Empty(t, m.SupplierName, "las salidas no llevan proveedor")
	require.Len(t, b.Writes(), 1)
	assert.Equal(t, repository.WriteCreate, b.Writes()[0].Kind)
}

func TestMovementLedger_ListYReconcile(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	item := &entity.InventoryItem{Name: "Arandela", Stock: dec("12"), InitialStock: dec("5")}
	createItem(t, s, item)

	ledger := docstore.NewMovementLedger(s)
	b := repository.NewBatch()
	require.NoError(t, ledger.Append(b, &entity.MovementRecord{ItemID: item.ID, Kind: entity.MovementKindExit, Quantity: dec("3"), Timestamp: t0.Add(2 * time.Hour)}))
	require.NoError(t, ledger.Append(b, &entity.MovementRecord{ItemID: item.ID, Kind: entity.MovementKindEntry, Quantity: dec("10"), Timestamp: t0.Add(time.Hour)}))
	require.NoError(t, ledger.Append(b, &entity.MovementRecord{ItemID: "otro", Kind: entity.MovementKindEntry, Quantity: dec("99"), Timestamp: t0}))
	require.NoError(t, s.RunAtomic(ctx, b.Writes()))

	movs, err := ledger.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindEntry, movs[0].Kind, "orden cronológico")
	assert.True(t, movs[1].SignedQuantity().Equal(dec("-3")))

	rec, err := ledger.Reconcile(ctx, item)
	require.NoError(t, err)
	assert.True(t, rec.Expected.Equal(dec("12")))
	assert.True(t, rec.Balanced)
	assert.Equal(t, 2, rec.Movements)

	item.Stock = dec("11")
	rec, err = ledger.Reconcile(ctx, item)
	require.NoError(t, err)
	assert.False(t, rec.Balanced)
}

func TestProductCatalog_PreciosInvalidosQuedanNil(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, docstore.CollectionProducts, "p1", repository.Document{"name": "Sembradora 4 surcos", "category": "Sembradoras", "price": 10000.0}))
	require.NoError(t, s.Set(ctx, docstore.CollectionProducts, "p2", repository.Document{"name": "Rastra", "category": "Implementos", "price": "a consultar", "dealerPrice": "8000"}))

	catalog := docstore.NewProductCatalog(s)
	p1, err := catalog.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p1.Price)
	assert.True(t, p1.Price.Equal(dec("10000")))
	assert.Nil(t, p1.DealerPrice)

	p2, err := catalog.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, p2.Price)
	require.NotNil(t, p2.DealerPrice)

	found, err := catalog.FindByName(ctx, "  sembradora 4 SURCOS")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "p1", found.ID)

	list, err := catalog.List(ctx, "Sembradoras")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestItemStore_AltasSimultaneasMismoNombreDuplicado(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	items := docstore.NewItemStore(s)

	// Ambas altas se preparan antes de confirmar ninguna: las dos pasan FindByName.
	first, second := repository.NewBatch(), repository.NewBatch()
	a := &entity.InventoryItem{Name: "Tornillo M8", Stock: dec("1")}
	b := &entity.InventoryItem{Name: "  TORNILLO m8", Stock: dec("2")}
	require.NoError(t, items.Create(ctx, first, a, t0))
	require.NoError(t, items.Create(ctx, second, b, t0))
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, docstore.ItemID("tornillo m8"), a.ID)
	assert.NotEqual(t, docstore.ItemID("tornillo m10"), a.ID)

	require.NoError(t, s.RunAtomic(ctx, first.Writes()))
	err := s.RunAtomic(ctx, second.Writes())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Equal(t, 1, s.Count(docstore.CollectionItems))
	found, err := items.FindByName(ctx, "tornillo m8")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Stock.Equal(dec("1")))
}

// queryLog registra los filtros de cada Query para ver qué filas leería (y bloquearía) una transacción.
type queryLog struct {
	repository.Reader
	queries [][]repository.Filter
}

func (l *queryLog) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	l.queries = append(l.queries, filters)
	return l.Reader.Query(ctx, collection, filters...)
}

func TestProductCatalog_FindByNameConsultaPorClave(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	price := dec("100")
	for id, name := range map[string]string{"p1": "Sembradora SD-2", "p2": "Rastra", "p3": "Arado"} {
		require.NoError(t, s.Set(ctx, docstore.CollectionProducts, id, docstore.ProductDocument(&entity.Product{Name: name, Price: &price})))
	}

	log := &queryLog{Reader: s}
	found, err := docstore.NewProductCatalog(log).FindByName(ctx, "  sembradora sd-2 ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "p1", found.ID)
	require.Len(t, log.queries, 1)
	assert.Equal(t, []repository.Filter{repository.Eq("nameKey", "sembradora sd-2")}, log.queries[0])

	snap, err := s.Get(ctx, docstore.CollectionProducts, "p2")
	require.NoError(t, err)
	assert.Equal(t, "rastra", snap.Data["nameKey"])
}

func TestProductCatalog_StagePricesCompletaNameKey(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Set(ctx, docstore.CollectionProducts, "p1", repository.Document{"name": "Rastra Pesada", "price": "10"}))

	catalog := docstore.NewProductCatalog(s)
	p, err := catalog.FindByName(ctx, "rastra pesada")
	require.NoError(t, err)
	require.NotNil(t, p)

	price := dec("11")
	p.Price = &price
	b := repository.NewBatch()
	catalog.StagePrices(b, p, t0)
	require.NoError(t, s.RunAtomic(ctx, b.Writes()))

	log := &queryLog{Reader: s}
	found, err := docstore.NewProductCatalog(log).FindByName(ctx, "RASTRA PESADA")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Price.Equal(price))
	assert.Len(t, log.queries, 1)
}

func TestFinancialLedger_Summary(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	ledger := docstore.NewFinancialLedger(s)
	b := repository.NewBatch()
	require.NoError(t, ledger.Append(b, &entity.FinancialRecord{Amount: dec("30000"), Concept: "Entrega", Kind: entity.FinancialKindIncome, Date: t0}))
	require.NoError(t, ledger.Append(b, &entity.FinancialRecord{Amount: dec("5000"), Concept: "Flete", Kind: entity.FinancialKindExpense, Date: t0.Add(24 * time.Hour)}))
	require.NoError(t, ledger.Append(b, &entity.FinancialRecord{Amount: dec("1000"), Concept: "Viejo", Kind: entity.FinancialKindIncome, Date: t0.AddDate(0, -1, 0)}))
	require.NoError(t, s.RunAtomic(ctx, b.Writes()))

	sum, err := ledger.Summary(ctx, t0, t0.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Records)
	assert.True(t, sum.Income.Equal(dec("30000")))
	assert.True(t, sum.Expense.Equal(dec("5000")))
	assert.True(t, sum.Net.Equal(dec("25000")))

	err = ledger.Append(b, &entity.FinancialRecord{Amount: decimal.Zero, Concept: "x", Kind: entity.FinancialKindIncome})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
