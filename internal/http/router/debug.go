package router

import (
	"github.com/gin-gonic/gin"

	"sawmill.app/ledger/internal/http/handler"
	"sawmill.app/ledger/internal/http/middleware"
)

func DebugRouter(router *gin.RouterGroup, handler *handler.DebugHandler, secret string) {
	router.Use(middleware.RequireSecret(middleware.DebugSecretHeader, secret))
	router.GET("/getme", handler.GetMe)
	router.POST("/test_send", handler.TestSend)
	router.GET("/stock", handler.Stock)
}
