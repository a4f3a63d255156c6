package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueComprobante = "jobs:comprobante"

	JobComprobante = "comprobante"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3

	popTimeout = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Store is the subset of the Redis client used by the queue. *redis.Client
// satisfies it.
type Store interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Processor runs one job type. A returned error schedules a retry.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// ComprobantePayload asks for the receipt of a sale to be mailed to Correo.
type ComprobantePayload struct {
	VentaID uint   `json:"venta_id"`
	Correo  string `json:"correo"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	store Store
}

func NewDispatcher(store Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// EnqueueComprobante pushes a receipt e-mail job.
func (d *Dispatcher) EnqueueComprobante(ctx context.Context, ventaID uint, correo string) error {
	return d.enqueue(ctx, QueueComprobante, JobComprobante, ComprobantePayload{VentaID: ventaID, Correo: correo})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.store.LPush(ctx, queue, encoded).Err()
}

// Pool tracks the running worker goroutines.
type Pool struct {
	wg sync.WaitGroup
}

// Wait blocks until every worker has returned after ctx cancellation.
func (p *Pool) Wait() { p.wg.Wait() }

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, store Store, numWorkers int, processors map[string]Processor) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	p := &Pool{}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			runWorker(ctx, store, id, processors)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return p
}

func runWorker(ctx context.Context, store Store, id int, processors map[string]Processor) {
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		result, err := store.BRPop(ctx, popTimeout, QueueComprobante).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		processJob(ctx, store, result[0], result[1], processors)
	}
}

// processJob runs one raw job. Failures are pushed back onto the queue until
// MaxAttempts is reached; then the job is parked in the DLQ.
func processJob(ctx context.Context, store Store, queue, raw string, processors map[string]Processor) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		parkJob(ctx, store, queue, Job{Payload: json.RawMessage(`null`)}, "invalid job: "+err.Error())
		return
	}

	proc, ok := processors[job.Type]
	if !ok {
		parkJob(ctx, store, queue, job, "no processor for job type")
		return
	}

	job.Attempts++
	err := proc.Process(ctx, job.Payload)
	if err == nil {
		log.Info().Str("job_id", job.ID).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job done")
		return
	}

	if job.Attempts >= MaxAttempts {
		parkJob(ctx, store, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("job_id", job.ID).Int("attempt", job.Attempts).Msg("job failed, requeued")
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Str("job_id", job.ID).Msg("failed to marshal job for retry")
		return
	}
	if pErr := store.LPush(ctx, queue, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Str("job_id", job.ID).Msg("failed to requeue job")
	}
}

func parkJob(ctx context.Context, store Store, queue string, job Job, reason string) {
	if err := SendToDLQ(ctx, store, queue, job, reason); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to park job")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("job moved to dead letter queue")
}
