package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/docstore"
)

// readRows lee el CSV completo sin la fila de encabezado. Si el contenido no es UTF-8
// válido se decodifica como ISO-8859-1.
func readRows(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optionalPrice(line int, name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := inventory.ParseNumber(name, raw)
	if err != nil {
		return nil, fmt.Errorf("línea %d: %w", line, err)
	}
	return &d, nil
}

// stageProducts agrega al lote un WriteSet por producto.
func stageProducts(w repository.Writer, rows [][]string, now time.Time) (int, error) {
	n := 0
	for i, row := range rows {
		line := i + 2
		id, name := field(row, 0), field(row, 1)
		if id == "" && name == "" {
			continue
		}
		if id == "" || name == "" {
			return n, fmt.Errorf("línea %d: id y name son obligatorios", line)
		}
		price, err := optionalPrice(line, "price", field(row, 3))
		if err != nil {
			return n, err
		}
		dealer, err := optionalPrice(line, "dealer_price", field(row, 4))
		if err != nil {
			return n, err
		}
		p := &entity.Product{
			ID:          id,
			Name:        name,
			Category:    field(row, 2),
			Price:       price,
			DealerPrice: dealer,
			UpdatedAt:   now,
		}
		w.Set(docstore.CollectionProducts, p.ID, docstore.ProductDocument(p))
		n++
	}
	return n, nil
}

// stageRecipes agrega al lote un WriteSet por receta. stock_finished vacío es 0;
// si viene, debe ser un entero >= 0.
func stageRecipes(w repository.Writer, rows [][]string, now time.Time) (int, error) {
	n := 0
	for i, row := range rows {
		line := i + 2
		id, name := field(row, 0), field(row, 1)
		if id == "" && name == "" {
			continue
		}
		if id == "" || name == "" {
			return n, fmt.Errorf("línea %d: id y product_name son obligatorios", line)
		}
		stock := decimal.Zero
		if raw := field(row, 4); raw != "" {
			d, err := inventory.ParseNumber("stock_finished", raw)
			if err == nil {
				err = inventory.CheckWholeUnits("stock_finished", d)
			}
			if err != nil {
				return n, fmt.Errorf("línea %d: %w", line, err)
			}
			stock = d
		}
		recipe := &entity.FinishedGoodRecord{
			ID:            id,
			ProductName:   name,
			SKU:           field(row, 2),
			ProductID:     field(row, 3),
			StockFinished: stock,
			UpdatedAt:     now,
		}
		w.Set(docstore.CollectionRecipes, recipe.ID, docstore.RecipeDocument(recipe))
		n++
	}
	return n, nil
}
