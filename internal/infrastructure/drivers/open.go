// Package drivers abre el almacén de documentos configurado en STORE_DRIVER.
package drivers

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/mongodb"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Open conecta con el driver configurado y devuelve la función que libera sus recursos.
// Con postgres aplica antes las migraciones pendientes del esquema.
func Open(ctx context.Context, cfg *config.Config) (repository.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDocumentStore(pool), pool.Close, nil
	case config.StoreMongoDB:
		store, err := mongodb.NewDocumentStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil
	case config.StoreMemory:
		return memstore.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("driver de almacén no soportado: %q", cfg.Store.Driver)
	}
}
