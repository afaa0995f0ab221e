package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// UseCase consultas sobre los registros financieros.
type UseCase struct {
	store repository.Reader
}

// NewUseCase construye el caso de uso de finanzas.
func NewUseCase(store repository.Reader) *UseCase {
	return &UseCase{store: store}
}

// Summary totales de ingresos y egresos entre from y to (ambos inclusive; cero no limita).
func (uc *UseCase) Summary(ctx context.Context, from, to time.Time) (docstore.FinancialSummary, error) {
	if err := checkRange(from, to); err != nil {
		return docstore.FinancialSummary{}, err
	}
	return docstore.NewFinancialLedger(uc.store).Summary(ctx, from, to)
}

// Records lista los registros del período en orden cronológico.
func (uc *UseCase) Records(ctx context.Context, from, to time.Time) ([]dto.FinancialRecordResponse, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	list, err := docstore.NewFinancialLedger(uc.store).ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FinancialRecordResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toRecordResponse(rec))
	}
	return out, nil
}

func toRecordResponse(rec *entity.FinancialRecord) dto.FinancialRecordResponse {
	out := dto.FinancialRecordResponse{
		ID:       rec.ID,
		Amount:   rec.Amount,
		Concept:  rec.Concept,
		Date:     rec.Date,
		Kind:     rec.Kind,
		RecipeID: rec.RecipeID,
	}
	if rec.RecipeID != "" {
		q := rec.Quantity
		out.Quantity = &q
	}
	return out
}

func checkRange(from, to time.Time) error {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrValidation)
	}
	return nil
}
