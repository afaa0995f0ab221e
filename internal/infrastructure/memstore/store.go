// Package memstore implementa repository.DocumentStore en memoria.
// Se usa en pruebas y con STORE_DRIVER=memory; los datos se pierden al reiniciar.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

// Store almacén en memoria. Un único mutex serializa lecturas y confirmaciones,
// por lo que RunTransaction es aislado frente a cualquier otra operación.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]repository.Document
	clock       func() time.Time
	commitErr   error
	commits     int
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado por Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New construye un almacén vacío.
func New(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]repository.Document),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailCommits hace que toda confirmación posterior falle con err sin aplicar nada.
// Pasar nil restablece el comportamiento normal.
func (s *Store) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// Commits cantidad de confirmaciones aplicadas (lotes, transacciones y escrituras sueltas).
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Count cantidad de documentos de una colección.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *Store) Now() time.Time {
	return s.clock().UTC()
}

func (s *Store) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return repository.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(collection, id)
}

func (s *Store) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query(collection, filters), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteSet, Collection: collection, ID: id, Data: data}})
}

func (s *Store) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteUpdate, Collection: collection, ID: id, Data: fields}})
}

func (s *Store) RunAtomic(ctx context.Context, writes []repository.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(writes)
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.apply(tx.batch.Writes())
}

func (s *Store) get(collection, id string) (repository.Snapshot, error) {
	doc, ok := s.collections[collection][id]
	if !ok {
		return repository.Snapshot{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return repository.Snapshot{ID: id, Data: doc.Clone()}, nil
}

func (s *Store) query(collection string, filters []repository.Filter) []repository.Snapshot {
	var out []repository.Snapshot
	for id, doc := range s.collections[collection] {
		if matches(doc, filters) {
			out = append(out, repository.Snapshot{ID: id, Data: doc.Clone()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matches(doc repository.Document, filters []repository.Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok || fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

// apply valida todas las escrituras sobre una capa temporal y solo entonces las vuelca al estado.
// Requiere s.mu tomado.
func (s *Store) apply(writes []repository.Write) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	type key struct{ collection, id string }
	staged := make(map[key]repository.Document, len(writes))
	var order []key

	current := func(k key) (repository.Document, bool) {
		if doc, ok := staged[k]; ok {
			return doc, true
		}
		doc, ok := s.collections[k.collection][k.id]
		return doc, ok
	}

	for _, w := range writes {
		if w.Collection == "" || w.ID == "" {
			return fmt.Errorf("escritura sin colección o id")
		}
		k := key{w.Collection, w.ID}
		existing, exists := current(k)
		switch w.Kind {
		case repository.WriteCreate:
			if exists {
				return fmt.Errorf("%w: %s/%s", domain.ErrDuplicate, w.Collection, w.ID)
			}
			staged[k] = w.Data.Clone()
		case repository.WriteSet:
			staged[k] = w.Data.Clone()
		case repository.WriteUpdate:
			if !exists {
				return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, w.Collection, w.ID)
			}
			merged := existing.Clone()
			for f, v := range w.Data {
				merged[f] = v
			}
			staged[k] = merged
		default:
			return fmt.Errorf("tipo de escritura desconocido: %d", w.Kind)
		}
		order = append(order, k)
	}

	for _, k := range order {
		coll, ok := s.collections[k.collection]
		if !ok {
			coll = make(map[string]repository.Document)
			s.collections[k.collection] = coll
		}
		coll[k.id] = staged[k]
	}
	s.commits++
	return nil
}

// memTx lee directamente del estado (el mutex ya está tomado por RunTransaction)
// y acumula escrituras para aplicarlas al final.
type memTx struct {
	store *Store
	batch repository.Batch
}

func (t *memTx) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return repository.Snapshot{}, err
	}
	return t.store.get(collection, id)
}

func (t *memTx) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.store.query(collection, filters), nil
}

func (t *memTx) Create(collection, id string, data repository.Document) {
	t.batch.Create(collection, id, data)
}

func (t *memTx) Set(collection, id string, data repository.Document) {
	t.batch.Set(collection, id, data)
}

func (t *memTx) Update(collection, id string, fields repository.Document) {
	t.batch.Update(collection, id, fields)
}
