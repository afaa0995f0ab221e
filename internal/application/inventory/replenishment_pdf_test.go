package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type fakePDFGenerator struct {
	got []dto.ReplenishmentSuggestionDTO
	err error
}

func (f *fakePDFGenerator) GenerateReplenishmentPDF(_ context.Context, list []dto.ReplenishmentSuggestionDTO, _ time.Time) ([]byte, error) {
	f.got = list
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

func TestDownloadReplenishmentPDF(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	uc := inventory.NewTransactionCoordinator(store, logger.Nop())

	_, err := uc.CreateItem(ctx, inventory.CreateItemInput{
		Name: "Aceite de almendras", Stock: dec("2"), StockMinimum: dec("10"), CostPerUnit: dec("5000"),
	})
	require.NoError(t, err)

	gen := &fakePDFGenerator{}
	pdfUC := inventory.NewReplenishmentPDFUseCase(inventory.NewReplenishmentUseCase(store), gen)

	out, filename, err := pdfUC.DownloadReplenishmentPDF(ctx, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "reposicion_20240305.pdf", filename)
	assert.Equal(t, []byte("%PDF-1.3"), out)
	require.Len(t, gen.got, 1)
	assert.Equal(t, "Aceite de almendras", gen.got[0].ItemName)
}

func TestDownloadReplenishmentPDF_FallaGenerador(t *testing.T) {
	pdfUC := inventory.NewReplenishmentPDFUseCase(
		inventory.NewReplenishmentUseCase(newStore()),
		&fakePDFGenerator{err: errors.New("fuente no disponible")},
	)

	_, _, err := pdfUC.DownloadReplenishmentPDF(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuente no disponible")
}
