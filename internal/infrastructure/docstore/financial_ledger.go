package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// FinancialLedger registros de ingresos y egresos.
type FinancialLedger struct {
	r repository.Reader
}

// NewFinancialLedger construye el libro financiero. Pasar el almacén o una transacción (Reader).
func NewFinancialLedger(r repository.Reader) *FinancialLedger {
	return &FinancialLedger{r: r}
}

// Append valida el registro, le asigna ID y agrega su alta a w.
func (l *FinancialLedger) Append(w repository.Writer, rec *entity.FinancialRecord) error {
	if !rec.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrValidation)
	}
	if rec.Kind != entity.FinancialKindIncome && rec.Kind != entity.FinancialKindExpense {
		return fmt.Errorf("%w: tipo de registro financiero %q", domain.ErrValidation, rec.Kind)
	}
	if strings.TrimSpace(rec.Concept) == "" {
		return fmt.Errorf("%w: concepto requerido", domain.ErrValidation)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	w.Create(CollectionFinancial, rec.ID, financialToDoc(rec))
	return nil
}

// ListBetween lista los registros con fecha en [from, to], en orden cronológico.
// Un extremo cero no limita.
func (l *FinancialLedger) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.FinancialRecord, error) {
	snaps, err := l.r.Query(ctx, CollectionFinancial)
	if err != nil {
		return nil, fmt.Errorf("list financial records: %w", err)
	}
	var list []*entity.FinancialRecord
	for _, snap := range snaps {
		rec := financialFromDoc(snap)
		if !from.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Date.After(to) {
			continue
		}
		list = append(list, rec)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

// FinancialSummary totales de un período.
type FinancialSummary struct {
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Records int             `json:"records"`
}

// Summary suma ingresos y egresos del período [from, to].
func (l *FinancialLedger) Summary(ctx context.Context, from, to time.Time) (FinancialSummary, error) {
	list, err := l.ListBetween(ctx, from, to)
	if err != nil {
		return FinancialSummary{}, err
	}
	sum := FinancialSummary{From: from, To: to, Income: decimal.Zero, Expense: decimal.Zero, Records: len(list)}
	for _, rec := range list {
		switch rec.Kind {
		case entity.FinancialKindIncome:
			sum.Income = sum.Income.Add(rec.Amount)
		case entity.FinancialKindExpense:
			sum.Expense = sum.Expense.Add(rec.Amount)
		}
	}
	sum.Net = sum.Income.Sub(sum.Expense)
	return sum, nil
}

func financialToDoc(rec *entity.FinancialRecord) repository.Document {
	doc := repository.Document{
		"amount":  decimalValue(rec.Amount),
		"concept": rec.Concept,
		"date":    rec.Date,
		"kind":    rec.Kind,
	}
	if rec.RecipeID != "" {
		doc["recipeId"] = rec.RecipeID
		doc["quantity"] = decimalValue(rec.Quantity)
	}
	return doc
}

func financialFromDoc(snap repository.Snapshot) *entity.FinancialRecord {
	d := snap.Data
	return &entity.FinancialRecord{
		ID:       snap.ID,
		Amount:   num(d, "amount"),
		Concept:  str(d, "concept"),
		Date:     timestamp(d, "date"),
		Kind:     str(d, "kind"),
		RecipeID: str(d, "recipeId"),
		Quantity: num(d, "quantity"),
	}
}
