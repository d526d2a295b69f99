package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"podium/internal/app/service"
	"podium/internal/common"
	"podium/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// RescoreWorker drains the rescore queue. Each item is a participation ID;
// the recompute itself takes a row lock, so running several workers is safe.
type RescoreWorker struct {
	rdb     *redis.Client
	rescore *service.RescoreService
}

func NewRescoreWorker(rdb *redis.Client, rescore *service.RescoreService) *RescoreWorker {
	return &RescoreWorker{rdb: rdb, rescore: rescore}
}

func (w *RescoreWorker) Start(ctx context.Context) {
	log.Println("Rescore worker started, listening to queue:", config.AppConfig.RescoreQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Rescore worker stopping...")
			return
		default:
			item, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.RescoreQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.RescoreQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// item is an array: [queueName, value]
			if len(item) < 2 || item[1] == "" {
				log.Println("WARN: BRPop returned empty participation ID.")
				continue
			}
			participationID := item[1]

			if err := w.rescore.RecomputeParticipation(ctx, participationID); err != nil {
				log.Printf("ERROR: Rescore of participation %s failed: %v", participationID, err)
				if transient(err) {
					// Idempotent work: re-queueing is safe and the lock
					// keeps duplicates harmless.
					w.requeue(ctx, participationID)
				}
				continue
			}
			log.Printf("INFO: Rescored participation %s", participationID)
		}
	}
}

// transient reports whether a retry could possibly succeed. Bad data stays
// bad until someone fixes it, so those items are dropped and logged instead
// of spinning in the queue.
func transient(err error) bool {
	return !errors.Is(err, common.ErrNotFound) &&
		!errors.Is(err, common.ErrDataIntegrity) &&
		!errors.Is(err, common.ErrScoringDefect) &&
		!errors.Is(err, common.ErrValidation)
}

func (w *RescoreWorker) requeue(ctx context.Context, participationID string) {
	if err := w.rdb.RPush(ctx, config.AppConfig.RescoreQueueName, participationID).Err(); err != nil {
		log.Printf("ERROR: Failed to re-queue participation %s: %v", participationID, err)
	}
}
