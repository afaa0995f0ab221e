// Package mongodb implementa repository.DocumentStore sobre MongoDB. Cada colección del motor
// es una colección de Mongo y el ID del documento es su _id. RunAtomic y RunTransaction usan
// transacciones de sesión, que requieren un replica set.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore almacén de documentos sobre una base de MongoDB.
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDocumentStore conecta con uri y verifica la conexión con un ping.
func NewDocumentStore(ctx context.Context, uri, dbName string) (*DocumentStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &DocumentStore{client: client, db: client.Database(dbName)}, nil
}

// Close cierra la conexión con MongoDB.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Now con precisión de milisegundos, la de las fechas BSON.
func (s *DocumentStore) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	return s.get(ctx, collection, id)
}

func (s *DocumentStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	return s.query(ctx, collection, filters)
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteSet, Collection: collection, ID: id, Data: data}})
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields repository.Document) error {
	return s.RunAtomic(ctx, []repository.Write{{Kind: repository.WriteUpdate, Collection: collection, ID: id, Data: fields}})
}

func (s *DocumentStore) RunAtomic(ctx context.Context, writes []repository.Write) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		return s.apply(sc, writes)
	})
}

// RunTransaction lee con read concern snapshot; si otra transacción escribe los mismos
// documentos el driver aborta con TransientTransactionError y vuelve a ejecutar fn.
func (s *DocumentStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		tx := &mongoTx{store: s, batch: repository.NewBatch()}
		if err := fn(sc, tx); err != nil {
			return err
		}
		return s.apply(sc, tx.batch.Writes())
	})
}

func (s *DocumentStore) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	}, opts)
	return err
}

func (s *DocumentStore) get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Snapshot{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
		}
		return repository.Snapshot{}, fmt.Errorf("get document: %w", err)
	}
	return toSnapshot(raw), nil
}

func (s *DocumentStore) query(ctx context.Context, collection string, filters []repository.Filter) ([]repository.Snapshot, error) {
	filter := bson.M{}
	for _, f := range filters {
		filter[f.Field] = f.Value
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer cur.Close(ctx)

	var list []repository.Snapshot
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		list = append(list, toSnapshot(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return list, nil
}

// apply ejecuta las escrituras dentro de la sesión; el primer error aborta la transacción.
func (s *DocumentStore) apply(sc mongo.SessionContext, writes []repository.Write) error {
	for _, w := range writes {
		if w.Collection == "" || w.ID == "" {
			return fmt.Errorf("escritura sin colección o id")
		}
		coll := s.db.Collection(w.Collection)
		switch w.Kind {
		case repository.WriteCreate:
			if _, err := coll.InsertOne(sc, toBSON(w.ID, w.Data)); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return fmt.Errorf("%w: %s/%s", domain.ErrDuplicate, w.Collection, w.ID)
				}
				return fmt.Errorf("insert %s/%s: %w", w.Collection, w.ID, err)
			}
		case repository.WriteSet:
			_, err := coll.ReplaceOne(sc, bson.M{"_id": w.ID}, toBSON(w.ID, w.Data), options.Replace().SetUpsert(true))
			if err != nil {
				return fmt.Errorf("replace %s/%s: %w", w.Collection, w.ID, err)
			}
		case repository.WriteUpdate:
			res, err := coll.UpdateOne(sc, bson.M{"_id": w.ID}, bson.M{"$set": bson.M(w.Data)})
			if err != nil {
				return fmt.Errorf("update %s/%s: %w", w.Collection, w.ID, err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, w.Collection, w.ID)
			}
		default:
			return fmt.Errorf("tipo de escritura desconocido: %d", w.Kind)
		}
	}
	return nil
}

// mongoTx lee dentro de la sesión (el ctx que recibe fn es el mongo.SessionContext)
// y acumula las escrituras hasta el final de fn.
type mongoTx struct {
	store *DocumentStore
	batch *repository.Batch
}

func (t *mongoTx) Get(ctx context.Context, collection, id string) (repository.Snapshot, error) {
	return t.store.get(ctx, collection, id)
}

func (t *mongoTx) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Snapshot, error) {
	return t.store.query(ctx, collection, filters)
}

func (t *mongoTx) Create(collection, id string, data repository.Document) {
	t.batch.Create(collection, id, data)
}

func (t *mongoTx) Set(collection, id string, data repository.Document) {
	t.batch.Set(collection, id, data)
}

func (t *mongoTx) Update(collection, id string, fields repository.Document) {
	t.batch.Update(collection, id, fields)
}

func toBSON(id string, data repository.Document) bson.M {
	out := make(bson.M, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["_id"] = id
	return out
}

// toSnapshot separa _id y convierte los tipos BSON a los que esperan los almacenes.
func toSnapshot(raw bson.M) repository.Snapshot {
	snap := repository.Snapshot{Data: make(repository.Document, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			snap.ID = fmt.Sprint(v)
			continue
		}
		snap.Data[k] = normalize(v)
	}
	return snap
}

func normalize(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	default:
		return v
	}
}
