package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"

	// MaxIntentos is how many times a job runs before it goes to the DLQ.
	MaxIntentos = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
}

// Handler processes one job payload. A non-nil error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, job EmailJob) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, queues: []string{QueueEmail}}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing. They exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.Process(ctx, result[0], result[1])
		}
	}
}

// Process runs one raw job. Failures are re-queued until MaxIntentos, then
// moved to the dead letter queue.
func (p *Pool) Process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		MoverADLQ(ctx, p.rdb, queue, Job{Payload: json.RawMessage(raw)}, "payload ilegible")
		return
	}

	handler, ok := p.handlers[job.Type]
	if !ok {
		MoverADLQ(ctx, p.rdb, queue, job, "tipo de job desconocido")
		return
	}

	job.Intentos++
	err := handler(ctx, job.Payload)
	if err == nil {
		metrics.RecordJob(job.Type, "ok")
		return
	}

	log.Warn().Err(err).
		Str("type", job.Type).
		Int("intento", job.Intentos).
		Msg("job failed")

	if job.Intentos >= MaxIntentos {
		metrics.RecordJob(job.Type, "dlq")
		MoverADLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	metrics.RecordJob(job.Type, "retry")
	if perr := push(ctx, p.rdb, queue, job); perr != nil {
		log.Error().Err(fmt.Errorf("requeue %s: %w", job.Type, perr)).Msg("job lost")
	}
}
