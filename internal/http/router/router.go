package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sawmill.app/ledger/internal/http/handler"
	"sawmill.app/ledger/internal/service"
)

type RouterConfig struct {
	ServiceName     string
	Env             string
	TraceHeaderName string
	// WebhookSecret guards the webhook and the debug routes. Empty leaves them open.
	WebhookSecret string
}

func SetupRoutes(router *gin.Engine, services *service.Services, bot handler.BotAPI, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.ServiceName, cfg.Env)
	router.GET("/", healthHandler.Health)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	webhookHandler := handler.NewTelegramWebhookHandler(services.Intake(), cfg.TraceHeaderName)
	TelegramRouter(router.Group("/tg"), webhookHandler, cfg.WebhookSecret)

	debugHandler := handler.NewDebugHandler(bot, services.Stores().StockBatches())
	DebugRouter(router.Group("/debug"), debugHandler, cfg.WebhookSecret)
}
