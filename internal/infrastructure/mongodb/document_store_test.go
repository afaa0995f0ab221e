package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestToSnapshot_NormalizaTiposBSON(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	dec, err := primitive.ParseDecimal128("2500.50")
	assert.NoError(t, err)

	snap := toSnapshot(bson.M{
		"_id":       "item-1",
		"name":      "Tornillo M8",
		"stock":     int32(150),
		"price":     dec,
		"updatedAt": primitive.NewDateTimeFromTime(ts),
	})

	assert.Equal(t, "item-1", snap.ID)
	assert.NotContains(t, snap.Data, "_id")
	assert.Equal(t, "Tornillo M8", snap.Data["name"])
	assert.Equal(t, int32(150), snap.Data["stock"])
	assert.Equal(t, "2500.50", snap.Data["price"])
	assert.Equal(t, ts, snap.Data["updatedAt"])
}

func TestToBSON_AgregaID(t *testing.T) {
	doc := repository.Document{"name": "Rastra"}
	out := toBSON("p1", doc)
	assert.Equal(t, "p1", out["_id"])
	assert.Equal(t, "Rastra", out["name"])
	assert.NotContains(t, doc, "_id", "no modifica el documento original")
}
