package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// maxJobAttempts is the retry budget before a job lands in the DLQ.
const maxJobAttempts = 3

// Handlers bundles the per-queue processors wired at the composition root.
type Handlers struct {
	RepairRevenue *RepairRevenueWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueStockAlerts, QueueRepairRevenue}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueStockAlerts:
		processStockAlert(job)
	case QueueRepairRevenue:
		if handlers == nil || handlers.RepairRevenue == nil {
			return
		}
		if err := handlers.RepairRevenue.Process(ctx, job.Payload); err != nil {
			retryOrPark(ctx, rdb, queue, job, err)
		}
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue dropped")
	}
}

// processStockAlert surfaces a low-stock condition in the structured log
// stream, where ops tooling picks it up. Nothing to retry.
func processStockAlert(job Job) {
	var payload StockAlertPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("stock_alert: invalid payload")
		return
	}
	log.Warn().
		Str("product_id", payload.ProductID).
		Str("product_name", payload.ProductName).
		Int("stock", payload.Stock).
		Int("min_stock", payload.MinStock).
		Msg("stock_alert: product below minimum stock")
}

// retryOrPark re-enqueues a failed job with an incremented attempt counter,
// or parks it in the DLQ once the retry budget is spent.
func retryOrPark(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	job.Attempts++
	if job.Attempts >= maxJobAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, cause.Error(), job.Attempts)
		return
	}

	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-enqueue job")
		return
	}
	if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-enqueue job")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Err(cause).
		Msg("job failed, re-enqueued for retry")
}
