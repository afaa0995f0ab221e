package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implementación de repository.DocumentStore sobre una tabla JSONB de PostgreSQL.
// Cada colección es un conjunto de filas con la misma columna collection; el esquema
// lo crean las migraciones de migrations/ (ver Migrate).
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore construye el almacén sobre el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// nowTimeout tope de la consulta de hora del servidor; vencido, se usa el reloj local.
const nowTimeout = 2 * time.Second

// Now devuelve la hora del servidor de base de datos (SELECT now()), de modo que todas las
// instancias de la API sellan movimientos y registros con el mismo reloj. Si la consulta
// falla se usa el reloj local.
func (s *DocumentStore) Now() time.Time {
	ctx, cancel := context.WithTimeout(context.Background(), nowTimeout)
	defer cancel()
	return serverNow(ctx, s.pool, time.Now)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func serverNow(ctx context.Context, q rowQuerier, fallback func() time.Time) time.Time {
	var now time.Time
	if err := q.QueryRow(ctx, `SELECT now()`).Scan(&now); err != nil {
		return fallback().UTC()
	}
	return now.UTC()
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	return getDocument(ctx, s.pool, collection, id, false)
}

func (s *DocumentStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	return queryDocuments(ctx, s.pool, collection, filters, false)
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteSet, Collection: collection, ID: id, Data: data}})
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteUpdate, Collection: collection, ID: id, Data: fields}})
}

// RunAtomic aplica las escrituras en una transacción; ante cualquier error hace Rollback.
func (s *DocumentStore) RunAtomic(ctx context.Context, writes []repository.Write) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := applyWrites(ctx, tx, writes); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// maxTxAttempts reintentos ante fallos de serialización o deadlock.
const maxTxAttempts = 3

// RunTransaction ejecuta fn con lecturas SELECT ... FOR UPDATE: una transacción concurrente
// sobre los mismos documentos espera al Commit y luego lee el valor confirmado.
// Si Postgres aborta por conflicto (40001, 40P01) fn se vuelve a ejecutar desde cero.
func (s *DocumentStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTransactionOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (s *DocumentStore) runTransactionOnce(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ptx := &pgTx{q: tx, batch: repository.NewBatch()}
	if err := fn(ctx, ptx); err != nil {
		return err
	}
	if err := applyWrites(ctx, tx, ptx.batch.Writes()); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgTx lecturas bloqueantes dentro de la transacción y escrituras acumuladas hasta el Commit.
type pgTx struct {
	q     Querier
	batch *repository.Batch
}

func (t *pgTx) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	return getDocument(ctx, t.q, collection, id, true)
}

func (t *pgTx) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	return queryDocuments(ctx, t.q, collection, filters, true)
}

func (t *pgTx) Create(collection, id string, data repository.Document) {
	t.batch.Create(collection, id, data)
}

func (t *pgTx) Set(collection, id string, data repository.Document) {
	t.batch.Set(collection, id, data)
}

func (t *pgTx) Update(collection, id string, fields repository.Document) {
	t.batch.Update(collection, id, fields)
}

func getDocument(ctx context.Context, q Querier, collection, id string, forUpdate bool) (repository.Snapshot, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var raw []byte
	err := q.QueryRow(ctx, query, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Snapshot{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
		}
		return repository.Snapshot{}, fmt.Errorf("get document: %w", err)
	}
	data, err := decodeDocument(raw)
	if err != nil {
		return repository.Snapshot{}, err
	}
	return repository.Snapshot{ID: id, Data: data}, nil
}

func queryDocuments(ctx context.Context, q Querier, collection string, filters []repository.Filter, forUpdate bool) ([]repository.Snapshot, error) {
	query, args := buildQuery(collection, filters, forUpdate)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var list []repository.Snapshot
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		data, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, repository.Snapshot{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return list, nil
}

// buildQuery arma el SELECT con un predicado data->>campo = valor por filtro.
func buildQuery(collection string, filters []repository.Filter, forUpdate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)
	args := []any{collection}
	for _, f := range filters {
		args = append(args, f.Field, filterText(f.Value))
		fmt.Fprintf(&sb, ` AND data->>$%d::text = $%d`, len(args)-1, len(args))
	}
	sb.WriteString(` ORDER BY id`)
	if forUpdate {
		sb.WriteString(` FOR UPDATE`)
	}
	return sb.String(), args
}

// filterText representación textual que devuelve el operador ->> para el valor.
func filterText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// applyWrites envía todas las escrituras en un pgx.Batch y verifica cada resultado en orden.
func applyWrites(ctx context.Context, q Querier, writes []repository.Write) error {
	if len(writes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, w := range writes {
		if w.Collection == "" || w.ID == "" {
			return fmt.Errorf("escritura sin colección o id")
		}
		raw, err := encodeDocument(w.Data)
		if err != nil {
			return err
		}
		switch w.Kind {
		case repository.WriteCreate:
			batch.Queue(`INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3::jsonb, now())`,
				w.Collection, w.ID, raw)
		case repository.WriteSet:
			batch.Queue(`INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3::jsonb, now())
				ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
				w.Collection, w.ID, raw)
		case repository.WriteUpdate:
			batch.Queue(`UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
				w.Collection, w.ID, raw)
		default:
			return fmt.Errorf("tipo de escritura desconocido: %d", w.Kind)
		}
	}

	br := q.SendBatch(ctx, batch)
	for _, w := range writes {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s/%s", domain.ErrDuplicate, w.Collection, w.ID)
			}
			return fmt.Errorf("write %s/%s: %w", w.Collection, w.ID, err)
		}
		if w.Kind == repository.WriteUpdate && tag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, w.Collection, w.ID)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}

func encodeDocument(doc repository.Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

// decodeDocument conserva los números como json.Number para no perder precisión decimal.
func decodeDocument(raw []byte) (repository.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc repository.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
