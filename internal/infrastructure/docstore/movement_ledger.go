package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// MovementLedger libro de movimientos de stock, solo de agregado: no expone
// actualización ni borrado. Es la pista de auditoría contra la que se concilia el stock.
type MovementLedger struct {
	r repository.Reader
}

// NewMovementLedger construye el libro. Pasar el almacén o una transacción (Reader).
func NewMovementLedger(r repository.Reader) *MovementLedger {
	return &MovementLedger{r: r}
}

// Append valida el movimiento, le asigna ID y agrega su alta a w.
// Falla con ErrValidation si la cantidad no es positiva o el tipo no es entry/exit.
func (l *MovementLedger) Append(w repository.Writer, m *entity.MovementRecord) error {
	if m.ItemID == "" {
		return fmt.Errorf("%w: movimiento sin ítem", domain.ErrValidation)
	}
	if !m.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad del movimiento debe ser mayor a cero", domain.ErrValidation)
	}
	if m.Kind != entity.MovementKindEntry && m.Kind != entity.MovementKindExit {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidation, m.Kind)
	}
	if m.Kind == entity.MovementKindExit {
		m.SupplierName = ""
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	w.Create(CollectionMovements, m.ID, movementToDoc(m))
	return nil
}

// ListByItem lista los movimientos de un ítem en orden cronológico.
func (l *MovementLedger) ListByItem(ctx context.Context, itemID string) ([]*entity.MovementRecord, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, fmt.Errorf("%w: id del ítem requerido", domain.ErrValidation)
	}
	snaps, err := l.r.Query(ctx, CollectionMovements, repository.Eq("itemId", itemID))
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	list := make([]*entity.MovementRecord, 0, len(snaps))
	for _, snap := range snaps {
		list = append(list, movementFromDoc(snap))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.Before(list[j].Timestamp) })
	return list, nil
}

// StockReconciliation resultado de conciliar el stock de un ítem contra su libro.
// Expected = InitialStock + Entries - Exits.
type StockReconciliation struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	Entries      decimal.Decimal `json:"entries"`
	Exits        decimal.Decimal `json:"exits"`
	Expected     decimal.Decimal `json:"expected"`
	Actual       decimal.Decimal `json:"actual"`
	Movements    int             `json:"movements"`
	Balanced     bool            `json:"balanced"`
}

// Reconcile recalcula el stock esperado de item desde sus movimientos.
func (l *MovementLedger) Reconcile(ctx context.Context, item *entity.InventoryItem) (StockReconciliation, error) {
	movs, err := l.ListByItem(ctx, item.ID)
	if err != nil {
		return StockReconciliation{}, err
	}
	rec := StockReconciliation{
		ItemID:       item.ID,
		ItemName:     item.Name,
		InitialStock: item.InitialStock,
		Entries:      decimal.Zero,
		Exits:        decimal.Zero,
		Actual:       item.Stock,
		Movements:    len(movs),
	}
	for _, m := range movs {
		switch m.Kind {
		case entity.MovementKindEntry:
			rec.Entries = rec.Entries.Add(m.Quantity)
		case entity.MovementKindExit:
			rec.Exits = rec.Exits.Add(m.Quantity)
		}
	}
	rec.Expected = rec.InitialStock.Add(rec.Entries).Sub(rec.Exits)
	rec.Balanced = rec.Expected.Equal(rec.Actual)
	return rec, nil
}

func movementToDoc(m *entity.MovementRecord) repository.Document {
	doc := repository.Document{
		"itemId":         m.ItemID,
		"itemName":       m.ItemName,
		"kind":           m.Kind,
		"quantity":       decimalValue(m.Quantity),
		"reason":         m.Reason,
		"unitCostAtTime": decimalValue(m.UnitCostAtTime),
		"timestamp":      m.Timestamp,
	}
	if m.SupplierName != "" {
		doc["supplierName"] = m.SupplierName
	}
	if m.CreatedBy != "" {
		doc["createdBy"] = m.CreatedBy
	}
	return doc
}

func movementFromDoc(snap repository.Snapshot) *entity.MovementRecord {
	d := snap.Data
	return &entity.MovementRecord{
		ID:             snap.ID,
		ItemID:         str(d, "itemId"),
		ItemName:       str(d, "itemName"),
		Kind:           str(d, "kind"),
		Quantity:       num(d, "quantity"),
		Reason:         str(d, "reason"),
		SupplierName:   str(d, "supplierName"),
		UnitCostAtTime: num(d, "unitCostAtTime"),
		Timestamp:      timestamp(d, "timestamp"),
		CreatedBy:      str(d, "createdBy"),
	}
}
