package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/finance"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
)

func TestSummary_PeriodoYValidacion(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	day := func(d int) time.Time { return time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC) }

	b := repository.NewBatch()
	ledger := docstore.NewFinancialLedger(s)
	for _, rec := range []*entity.FinancialRecord{
		{Amount: decimal.NewFromInt(30000), Concept: "Entrega de 3 unidades de Sembradora", Date: day(2), Kind: entity.FinancialKindIncome},
		{Amount: decimal.NewFromInt(5000), Concept: "Flete", Date: day(3), Kind: entity.FinancialKindExpense},
		{Amount: decimal.NewFromInt(1000), Concept: "Entrega de 1 unidad de Rastra", Date: day(20), Kind: entity.FinancialKindIncome},
	} {
		require.NoError(t, ledger.Append(b, rec))
	}
	require.NoError(t, s.RunAtomic(ctx, b.Writes()))

	uc := finance.NewUseCase(s)
	sum, err := uc.Summary(ctx, day(1), day(10))
	require.NoError(t, err)
	assert.True(t, sum.Income.Equal(decimal.NewFromInt(30000)))
	assert.True(t, sum.Expense.Equal(decimal.NewFromInt(5000)))
	assert.True(t, sum.Net.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, 2, sum.Records)

	all, err := uc.Records(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = uc.Summary(ctx, day(10), day(1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
