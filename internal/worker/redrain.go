package worker

// Background goroutine that periodically drains the delivery-callback DLQ
// back into the live queue. Entries usually land there because a provider
// webhook raced the send transaction; a later pass almost always applies
// cleanly. Permanent failures and entries that already used their redrain
// budget stay parked in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redrainTickInterval = 5 * time.Minute
	redrainBatchSize    = 50

	// maxRedrains caps how often one job may travel DLQ → queue → DLQ.
	maxRedrains = 3
)

// StartRedrainCron launches a goroutine that ticks every 5 minutes and moves
// up to redrainBatchSize eligible DLQ entries back onto the callback queue.
// It respects the context for graceful shutdown.
func StartRedrainCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(redrainTickInterval)
		defer ticker.Stop()

		log.Info().Msg("redrain_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("redrain_cron: shutting down")
				return
			case <-ticker.C:
				redrain(ctx, rdb)
			}
		}
	}()
}

func redrain(ctx context.Context, rdb *redis.Client) {
	dlqKey := DLQPrefix + QueueDeliveryCallbacks

	// Bound the pass by the list length at its start, so entries pushed back
	// because they are parked are not examined twice in one sweep.
	n, err := rdb.LLen(ctx, dlqKey).Result()
	if err != nil {
		log.Error().Err(err).Msg("redrain_cron: failed to read DLQ length")
		return
	}
	if n > redrainBatchSize {
		n = redrainBatchSize
	}

	moved, parked := 0, 0
	for i := int64(0); i < n; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("redrain_cron: failed to pop DLQ entry")
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("redrain_cron: dropping unreadable DLQ entry")
			continue
		}

		job, ok := redrainJob(entry)
		if !ok {
			// Stays in the DLQ for manual inspection.
			if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
				log.Error().Err(err).Msg("redrain_cron: failed to park DLQ entry")
				return
			}
			parked++
			continue
		}

		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("redrain_cron: failed to re-encode job")
			continue
		}
		if err := rdb.LPush(ctx, QueueDeliveryCallbacks, encoded).Err(); err != nil {
			log.Error().Err(err).Msg("redrain_cron: failed to re-enqueue job")
			return
		}
		moved++
	}

	if moved > 0 || parked > 0 {
		log.Info().Int("moved", moved).Int("parked", parked).Msg("redrain_cron: DLQ sweep complete")
	}
}

// redrainJob rebuilds the live job for a DLQ entry, or reports that the entry
// must stay parked: permanent failures never retry, and a job only gets
// maxRedrains trips back onto the queue. The attempt budget is reset per trip,
// the redrain count is not.
func redrainJob(entry DLQEntry) (Job, bool) {
	if entry.Permanent || entry.Redrains >= maxRedrains {
		return Job{}, false
	}
	return Job{
		Type:     entry.JobType,
		Payload:  entry.Payload,
		Redrains: entry.Redrains + 1,
	}, true
}
