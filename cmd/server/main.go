package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"sawmill.app/ledger/common/id"
	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/common/otel"
	"sawmill.app/ledger/core/config"
	"sawmill.app/ledger/core/db"
	"sawmill.app/ledger/internal/http/middleware"
	httprouter "sawmill.app/ledger/internal/http/router"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/store"
	"sawmill.app/ledger/internal/telegram"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "sawmill ledger server starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"timezone", cfg.Timezone)
	if err := id.Init(id.NodeServer); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
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
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer producer.Close()

	stores := store.NewStores(database.Queries())

	services := service.NewServices(service.ServicesConfig{
		Stores:   stores,
		TxRunner: service.NewTxRunner(database),
		Producer: producer,
		Limiter:  service.NewRedisRateLimiter(redisClient, cfg.Intake.RateLimitPerMinute),
		Clock:    service.NewClock(cfg.Location),
	})

	bot, err := telegram.NewClient(telegram.Config{
		Token:  cfg.Telegram.BotToken,
		APIURL: cfg.Telegram.APIURL,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create telegram client", "error", err)
		os.Exit(1)
	}
	registerWebhook(ctx, bot, cfg.Telegram)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, bot)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// registerWebhook points Telegram at this server. Failure is logged and startup continues.
func registerWebhook(ctx context.Context, bot *telegram.Client, cfg config.TelegramConfig) {
	webhookURL := cfg.WebhookURL()
	if webhookURL == "" || !bot.Enabled() {
		slog.InfoContext(ctx, "telegram webhook registration skipped",
			"public_url_set", webhookURL != "",
			"token", bot.MaskedToken())
		return
	}

	regCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := bot.SetWebhook(regCtx, webhookURL, cfg.WebhookSecret); err != nil {
		slog.WarnContext(ctx, "telegram webhook registration failed",
			"error", err,
			"url", webhookURL,
			"token", bot.MaskedToken())
		return
	}
	slog.InfoContext(ctx, "telegram webhook registered", "url", webhookURL, "token", bot.MaskedToken())
}

func setupRouter(cfg config.Config, services *service.Services, bot *telegram.Client) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, bot, httprouter.RouterConfig{
		ServiceName:     cfg.OTel.ServiceName,
		Env:             cfg.Env,
		TraceHeaderName: cfg.Pipeline.TraceHeaderName,
		WebhookSecret:   cfg.Telegram.WebhookSecret,
	})

	return router
}

const banner = `
 ___   _ __      ____  __ ___ _    _      _    ___ ___   ___ ___ ___
/ __| /_\\ \    / /  \/  |_ _| |  | |    | |  | __|   \ / __| __| _ \
\__ \/ _ \\ \/\/ /| |\/| || || |__| |__  | |__| _|| |) | (_ | _||   /
|___/_/ \_\\_/\_/ |_|  |_|___|____|____| |____|___|___/ \___|___|_|_\
`
