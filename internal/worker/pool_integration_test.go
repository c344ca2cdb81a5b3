//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Run with: go test -tags integration ./internal/worker/...

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPool_DeliversQueuedEmail(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	recibidos := make(chan EmailJob, 1)
	pool := NewPool(rdb, map[string]Handler{
		JobEmail: func(_ context.Context, raw json.RawMessage) error {
			var job EmailJob
			if err := json.Unmarshal(raw, &job); err != nil {
				return err
			}
			recibidos <- job
			return nil
		},
	})
	pool.Start(ctx, 2)

	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJob{To: "cliente@correo.mx", Subject: "Ticket"}))

	select {
	case job := <-recibidos:
		assert.Equal(t, "cliente@correo.mx", job.To)
	case <-time.After(10 * time.Second):
		t.Fatal("job not consumed")
	}
}

func TestPool_RetriesThenDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	var llamadas int32
	pool := NewPool(rdb, map[string]Handler{
		JobEmail: func(context.Context, json.RawMessage) error {
			atomic.AddInt32(&llamadas, 1)
			return errors.New("smtp caído")
		},
	})

	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJob{To: "a@b.mx", Subject: "Ticket T20261015-000123"}))

	// Drive the queue by hand: each failure re-queues until MaxIntentos.
	for i := 0; i < MaxIntentos; i++ {
		raw, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err)
		pool.Process(ctx, QueueEmail, raw)
	}

	assert.EqualValues(t, MaxIntentos, atomic.LoadInt32(&llamadas))
	n, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	dlq, err := LongitudDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dlq)

	entradas, err := ListarDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, entradas, 1)
	assert.Equal(t, JobEmail, entradas[0].Tipo)
	assert.Equal(t, "a@b.mx", entradas[0].Destinatario)
	assert.Equal(t, "Ticket T20261015-000123", entradas[0].Asunto)
	assert.Equal(t, "smtp caído", entradas[0].Motivo)
	assert.Equal(t, MaxIntentos, entradas[0].Intentos)
}

func TestPool_UnknownTypeGoesToDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	pool := NewPool(rdb, map[string]Handler{})

	raw, err := json.Marshal(Job{Type: "fax", Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	pool.Process(ctx, QueueEmail, string(raw))
	pool.Process(ctx, QueueEmail, "{no es json")

	dlq, err := LongitudDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dlq)
}
