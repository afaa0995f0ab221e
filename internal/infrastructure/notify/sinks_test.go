package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

type fakeSink struct {
	err   error
	calls int
}

func (f *fakeSink) NotifyAudit(context.Context, dto.AuditAlertDTO) error {
	f.calls++
	return f.err
}

func TestFanout_EntregaATodosYUneErrores(t *testing.T) {
	errA := errors.New("webhook caído")
	a := &fakeSink{err: errA}
	b := &fakeSink{}
	f := NewFanout(a, b)

	err := f.NotifyAudit(context.Background(), dto.AuditAlertDTO{Service: "inv"})
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 2, f.Len())

	assert.NoError(t, NewFanout(b).NotifyAudit(context.Background(), dto.AuditAlertDTO{}))
}

func TestAlertMessage(t *testing.T) {
	at := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	msg, err := alertMessage(dto.AuditAlertDTO{Service: "inventario-ledger", GeneratedAt: at, Checked: 7})
	require.NoError(t, err)

	assert.Equal(t, "inventario-ledger", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "inventory.audit", string(msg.Headers[0].Value))

	var got dto.AuditAlertDTO
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, 7, got.Checked)
}

func TestNewKafkaNotifier(t *testing.T) {
	_, err := NewKafkaNotifier(nil, "x")
	assert.Error(t, err)

	n, err := NewKafkaNotifier([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultKafkaTopic, n.writer.Topic)
	assert.NoError(t, n.Close())
}

func TestNewRedisNotifier(t *testing.T) {
	_, err := NewRedisNotifier("http://no-es-redis", "")
	assert.Error(t, err)

	n, err := NewRedisNotifier("redis://localhost:6379/2", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRedisChannel, n.channel)
	assert.Equal(t, 2, n.client.Options().DB)
	assert.NoError(t, n.Close())
}
