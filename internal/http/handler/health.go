package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sawmill.app/ledger/internal/http/dto"
)

type HealthHandler struct {
	service string
	env     string
}

func NewHealthHandler(service, env string) *HealthHandler {
	return &HealthHandler{service: service, env: env}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{OK: true, Service: h.service, Env: h.env})
}
