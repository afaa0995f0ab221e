package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "0 3 * * *", cfg.Audit.Cron)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "COP", cfg.App.Currency)
	assert.Empty(t, cfg.Audit.WebhookURL)
	assert.Empty(t, cfg.Audit.KafkaBrokers)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "inventario-ledger", cfg.DB.AppName)
}

func TestFromViper_Sobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MongoDB")
	v.Set("HTTP_PORT", "9090")
	v.Set("AUDIT_CRON", "off")
	v.Set("MONGO_DATABASE", "erp")
	v.Set("APP_CURRENCY", "usd")
	v.Set("DB_FORCE_IPV4", "true")
	v.Set("DB_MAX_CONNS", "4")
	v.Set("AUDIT_WEBHOOK_URL", "https://hooks.example.com/inventario")
	v.Set("AUDIT_KAFKA_BROKERS", "k1:9092, ,k2:9092")
	v.Set("AUDIT_REDIS_URL", "redis://cache:6379/0")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMongoDB, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Empty(t, cfg.Audit.Cron)
	assert.Equal(t, "erp", cfg.Mongo.Database)
	assert.Equal(t, "USD", cfg.App.Currency)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, int32(4), cfg.DB.MaxConns)
	assert.Equal(t, "https://hooks.example.com/inventario", cfg.Audit.WebhookURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Equal(t, "redis://cache:6379/0", cfg.Audit.RedisURL)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "firestore")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inventario", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inventario?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
