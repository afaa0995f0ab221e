package drivers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/drivers"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestOpen_Memoria(t *testing.T) {
	store, closeFn, err := drivers.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memstore.Store{}, store)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, _, err := drivers.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
