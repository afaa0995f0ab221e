package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ReconciliationUseCase verifica la ley de conciliación stock = inicial + entradas - salidas.
type ReconciliationUseCase struct {
	store repository.Reader
	log   *logger.Logger
}

// NewReconciliationUseCase construye el caso de uso. log puede ser nil.
func NewReconciliationUseCase(store repository.Reader, log *logger.Logger) *ReconciliationUseCase {
	return &ReconciliationUseCase{store: store, log: log.Component("reconciliation")}
}

// AuditReport resultado de conciliar todos los ítems.
type AuditReport struct {
	Checked    int                             `json:"checked"`
	Unbalanced []docstore.StockReconciliation `json:"unbalanced"`
}

// Reconcile concilia un ítem contra su libro de movimientos.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, itemID string) (docstore.StockReconciliation, error) {
	item, err := docstore.NewItemStore(uc.store).Get(ctx, itemID)
	if err != nil {
		return docstore.StockReconciliation{}, err
	}
	return docstore.NewMovementLedger(uc.store).Reconcile(ctx, item)
}

// AuditAll concilia todos los ítems y devuelve los descuadrados.
func (uc *ReconciliationUseCase) AuditAll(ctx context.Context) (*AuditReport, error) {
	items, err := docstore.NewItemStore(uc.store).List(ctx)
	if err != nil {
		return nil, err
	}
	ledger := docstore.NewMovementLedger(uc.store)
	report := &AuditReport{Unbalanced: []docstore.StockReconciliation{}}
	for _, item := range items {
		rec, err := ledger.Reconcile(ctx, item)
		if err != nil {
			return nil, err
		}
		report.Checked++
		if !rec.Balanced {
			uc.log.Warn().
				Str("item_id", rec.ItemID).
				Str("item", rec.ItemName).
				Str("expected", rec.Expected.String()).
				Str("actual", rec.Actual.String()).
				Msg("stock descuadrado frente al libro de movimientos")
			report.Unbalanced = append(report.Unbalanced, rec)
		}
	}
	return report, nil
}
