package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/internal/metrics"
	"sawmill.app/ledger/internal/queue"
)

type RedisReclaimerConfig struct {
	Stream   string
	Group    string
	Consumer string
	// MinIdle must exceed the longest processing time, oracle budget included, or live
	// entries get taken from a busy worker.
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
}

// DefaultMinIdle is how long an intake entry may sit unacknowledged before another consumer
// takes it over.
const DefaultMinIdle = 5 * time.Minute

// RedisReclaimer re-runs intake entries whose worker died between XREADGROUP and XACK.
// Processing is idempotent: an intake message that was already applied is skipped by the
// processor, so a reclaim after a late ack costs a lookup and nothing else.
type RedisReclaimer struct {
	client  *redis.Client
	cfg     RedisReclaimerConfig
	acker   Consumer
	process queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewRedisReclaimer hands every taken-over entry to process, which is normally
// Worker.HandleMessage so retries and the dead-letter stream apply to it as well.
func NewRedisReclaimer(client *redis.Client, cfg RedisReclaimerConfig, acker Consumer, process queue.MessageProcessor) *RedisReclaimer {
	if cfg.MinIdle <= 0 {
		cfg.MinIdle = DefaultMinIdle
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &RedisReclaimer{
		client:    client,
		cfg:       cfg,
		acker:     acker,
		process:   process,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps the pending list every Interval until Stop is called or ctx ends.
func (r *RedisReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "ledger.worker.reclaimer",
	})
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "intake reclaimer started",
		"stream", r.cfg.Stream,
		"group", r.cfg.Group,
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "intake reclaimer stopping")
			return
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "intake reclaim sweep failed", "error", err)
			}
		}
	}
}

func (r *RedisReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

func (r *RedisReclaimer) sweep(ctx context.Context) error {
	stale, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: r.cfg.Stream,
		Group:  r.cfg.Group,
		Idle:   r.cfg.MinIdle,
		Start:  "-",
		End:    "+",
		Count:  r.cfg.BatchSize,
	}).Result()
	if err != nil {
		return fmt.Errorf("listing stale intake entries: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "stale intake entries found", "count", len(stale))

	for _, entry := range stale {
		if err := r.takeOver(ctx, entry); err != nil {
			metrics.EntriesReclaimed.WithLabelValues("error").Inc()
			slog.ErrorContext(ctx, "failed to take over intake entry",
				"error", err,
				"stream_id", entry.ID,
				"dead_consumer", entry.Consumer,
				"idle", entry.Idle)
		}
	}
	return nil
}

// takeOver claims one stale entry for this consumer and processes it.
func (r *RedisReclaimer) takeOver(ctx context.Context, entry redis.XPendingExt) error {
	streamID := entry.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &streamID})

	slog.InfoContext(ctx, "taking over intake entry",
		"dead_consumer", entry.Consumer,
		"idle", entry.Idle,
		"deliveries", entry.RetryCount)

	claimed, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   r.cfg.Stream,
		Group:    r.cfg.Group,
		Consumer: r.cfg.Consumer,
		MinIdle:  r.cfg.MinIdle,
		Messages: []string{entry.ID},
	}).Result()
	if err != nil {
		return fmt.Errorf("claiming intake entry: %w", err)
	}
	if len(claimed) == 0 {
		metrics.EntriesReclaimed.WithLabelValues("taken").Inc()
		slog.DebugContext(ctx, "intake entry already taken by another consumer")
		return nil
	}

	raw := claimed[0]
	msg, err := queue.ParseMessage(raw)
	if err != nil {
		// It can never parse; acking keeps it from coming back every sweep.
		metrics.EntriesReclaimed.WithLabelValues("malformed").Inc()
		slog.ErrorContext(ctx, "malformed intake entry acknowledged", "error", err)
		_ = r.acker.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw})
		return nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		IntakeID: &msg.IntakeID,
		ChatID:   &msg.ChatID,
	})

	start := time.Now()
	if err := r.process(ctx, msg); err != nil {
		return fmt.Errorf("processing reclaimed intake %d: %w", msg.IntakeID, err)
	}

	metrics.EntriesReclaimed.WithLabelValues("processed").Inc()
	slog.InfoContext(ctx, "reclaimed intake processed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
