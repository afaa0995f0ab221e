package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestBuildQuery_FiltrosYBloqueo(t *testing.T) {
	query, args := buildQuery("inventory_items", []repository.Filter{repository.Eq("nameKey", "tornillo m8")}, false)
	assert.Equal(t, `SELECT id, data FROM documents WHERE collection = $1 AND data->>$2::text = $3 ORDER BY id`, query)
	assert.Equal(t, []any{"inventory_items", "nameKey", "tornillo m8"}, args)

	query, args = buildQuery("recipes", nil, true)
	assert.Equal(t, `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id FOR UPDATE`, query)
	assert.Equal(t, []any{"recipes"}, args)

	query, args = buildQuery("products", []repository.Filter{repository.Eq("category", "Sembradoras"), repository.Eq("active", true)}, false)
	assert.Contains(t, query, `data->>$4::text = $5`)
	assert.Equal(t, "true", args[4])
}

func TestEncodeDecode_ConservaNumerosYFechas(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	raw, err := encodeDocument(repository.Document{"stock": "150.25", "price": 2500.5, "timestamp": ts})
	require.NoError(t, err)

	doc, err := decodeDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, "150.25", doc["stock"])
	assert.Equal(t, json.Number("2500.5"), doc["price"])
	assert.Equal(t, ts.Format(time.RFC3339Nano), doc["timestamp"])
}

func TestFilterText(t *testing.T) {
	assert.Equal(t, "abc", filterText("abc"))
	assert.Equal(t, "false", filterText(false))
	assert.Equal(t, "12", filterText(12))
}

type nowRow struct {
	at  time.Time
	err error
}

func (r nowRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*time.Time) = r.at
	return nil
}

type nowQuerier struct {
	row nowRow
	sql string
}

func (q *nowQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.sql = sql
	return q.row
}

func TestServerNow_UsaHoraDelServidor(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	server := time.Date(2024, 3, 1, 4, 0, 0, 0, bogota)
	local := func() time.Time { return time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC) }

	q := &nowQuerier{row: nowRow{at: server}}
	got := serverNow(context.Background(), q, local)
	assert.Equal(t, `SELECT now()`, q.sql)
	assert.True(t, got.Equal(server))
	assert.Equal(t, time.UTC, got.Location())

	q = &nowQuerier{row: nowRow{err: errors.New("conexión rechazada")}}
	got = serverNow(context.Background(), q, local)
	assert.True(t, got.Equal(local()))
}
