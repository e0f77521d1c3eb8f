package router

import (
	"github.com/gin-gonic/gin"

	"sawmill.app/ledger/internal/http/handler"
	"sawmill.app/ledger/internal/http/middleware"
)

func TelegramRouter(router *gin.RouterGroup, handler *handler.TelegramWebhookHandler, secret string) {
	router.POST("/webhook", middleware.RequireSecret(middleware.TelegramSecretHeader, secret), handler.HandleUpdate)
}
