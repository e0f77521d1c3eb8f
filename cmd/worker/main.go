package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sawmill.app/ledger/common/id"
	"sawmill.app/ledger/common/llm"
	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/common/otel"
	"sawmill.app/ledger/core/config"
	"sawmill.app/ledger/core/db"
	"sawmill.app/ledger/internal/oracle"
	"sawmill.app/ledger/internal/parser"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/store"
	"sawmill.app/ledger/internal/telegram"
	"sawmill.app/ledger/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "sawmill ledger worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.RedisGroup,
		"consumer_name", cfg.Pipeline.RedisConsumer,
		"oracle_enabled", cfg.Oracle.Enabled())

	// Different node ID than the server
	if err := id.Init(id.NodeWorker); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:    cfg.Pipeline.RedisStream,
		Group:     cfg.Pipeline.RedisGroup,
		Consumer:  cfg.Pipeline.RedisConsumer,
		DLQStream: cfg.Pipeline.RedisDLQStream,
		// One at a time keeps each chat's messages in order.
		BatchSize:    1,
		Block:        5 * time.Second,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	stores := store.NewStores(database.Queries())
	clock := service.NewClock(cfg.Location)

	extractor := newOracle(ctx, cfg.Oracle, stores.LLMEvals())
	var fallbackOracle parser.Oracle
	if extractor != nil {
		fallbackOracle = extractor
	}
	resolver := parser.NewResolver(parser.NewFallback(fallbackOracle, parser.FallbackConfig{
		Timeout: cfg.Oracle.Timeout,
	}))

	var sender telegram.Sender
	if cfg.Telegram.Enabled() {
		client, err := telegram.NewClient(telegram.Config{
			Token:  cfg.Telegram.BotToken,
			APIURL: cfg.Telegram.APIURL,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create telegram client", "error", err)
			os.Exit(1)
		}
		sender = client
	} else {
		slog.WarnContext(ctx, "TELEGRAM_BOT_TOKEN not set, replies disabled")
	}

	processor := worker.NewProcessor(
		stores.Intake(),
		service.NewTxRunner(database),
		resolver,
		service.NewDispatcher(clock),
		sender,
	)

	w := worker.New(consumer, processor, stores.Intake(), worker.Config{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:    cfg.Pipeline.RedisStream,
		Group:     cfg.Pipeline.RedisGroup,
		Consumer:  cfg.Pipeline.RedisConsumer + "-reclaimer",
		MinIdle:   worker.DefaultMinIdle,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, w.HandleMessage)

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Reclaimer first: it is quick. The worker may be mid-message.
	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if extractor != nil {
		extractor.Wait()
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

// newOracle returns nil when no API key is configured, which leaves the fallback disabled.
func newOracle(ctx context.Context, cfg config.OracleConfig, evals store.LLMEvalStore) *oracle.Extractor {
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "OPENAI_API_KEY not set, oracle fallback disabled")
		return nil
	}

	client, err := llm.New(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client, oracle fallback disabled", "error", err)
		return nil
	}

	return oracle.New(client,
		oracle.WithEvalStore(evals),
		oracle.WithMaxTokens(cfg.MaxTokens),
	)
}

const banner = `
 ___   _ __      ____  __ ___ _    _      __      _____  ___ _  _____ ___
/ __| /_\\ \    / /  \/  |_ _| |  | |     \ \    / / _ \| _ \ |/ / __| _ \
\__ \/ _ \\ \/\/ /| |\/| || || |__| |__    \ \/\/ / (_) |   / ' <| _||   /
|___/_/ \_\\_/\_/ |_|  |_|___|____|____|    \_/\_/ \___/|_|_\_|\_\___|_|_\
`
