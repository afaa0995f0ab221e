package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TransactionCoordinator orquesta las operaciones atómicas del motor de inventario
// (alta/reposición, salida manual, ajuste y entrega de terminados). Cada operación calcula
// el conjunto completo de escrituras y lo confirma de una vez; ante cualquier error
// no queda ningún efecto parcial.
type TransactionCoordinator struct {
	store repository.DocumentStore
	log   *logger.Logger
}

// NewTransactionCoordinator construye el coordinador. log puede ser nil.
func NewTransactionCoordinator(store repository.DocumentStore, log *logger.Logger) *TransactionCoordinator {
	return &TransactionCoordinator{store: store, log: log.Component("inventory")}
}

// MovementResult resultado de una operación sobre un ítem: el ítem actualizado y,
// si el stock cambió, el movimiento registrado.
type MovementResult struct {
	Item     *entity.InventoryItem
	Movement *entity.MovementRecord
	Created  bool // true si la operación dio de alta el ítem
}

// commit aplica el lote como una sola escritura atómica.
func (c *TransactionCoordinator) commit(ctx context.Context, b *repository.Batch) error {
	if err := c.store.RunAtomic(ctx, b.Writes()); err != nil {
		return storeErr(err)
	}
	return nil
}

// storeErr clasifica como ErrStore los errores del almacén que no son de dominio
// (red, permisos, cancelación); el llamador puede reintentarlos sin riesgo de doble registro.
func storeErr(err error) error {
	if err == nil || domain.IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStore, err)
}

// fail registra la operación rechazada y devuelve el error clasificado.
func (c *TransactionCoordinator) fail(op string, err error) error {
	err = storeErr(err)
	ev := c.log.Warn()
	if errors.Is(err, domain.ErrStore) {
		ev = c.log.Error()
	}
	ev.Err(err).Str("op", op).Msg("operación de inventario rechazada")
	return err
}
