package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/internal/http/dto"
	"sawmill.app/ledger/internal/metrics"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/telegram"
)

type TelegramWebhookHandler struct {
	intake      service.IntakeService
	traceHeader string
}

func NewTelegramWebhookHandler(intake service.IntakeService, traceHeader string) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{
		intake:      intake,
		traceHeader: traceHeader,
	}
}

// HandleUpdate records the update and acknowledges it. Only a failure to record answers 500,
// which makes Telegram redeliver. Bodies that can never be recorded are acknowledged.
func (h *TelegramWebhookHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		metrics.UpdatesReceived.WithLabelValues("ignored").Inc()
		slog.WarnContext(ctx, "undecodable telegram update ignored", "error", err)
		c.JSON(http.StatusOK, dto.OKResponse{OK: true})
		return
	}

	msg := update.EffectiveMessage()
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		metrics.UpdatesReceived.WithLabelValues("ignored").Inc()
		slog.DebugContext(ctx, "update without text ignored", "update_id", update.ID)
		c.JSON(http.StatusOK, dto.OKResponse{OK: true})
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UpdateID:  &update.ID,
		ChatID:    &msg.Chat.ID,
		Component: "ledger.http.webhook",
	})

	traceID := c.GetHeader(h.traceHeader)
	if traceID == "" {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			traceID = spanCtx.TraceID().String()
		}
	}
	params := service.IntakeParams{
		UpdateID:  update.ID,
		ChatID:    msg.Chat.ID,
		MessageID: int64(msg.ID),
		Username:  telegram.Username(msg),
		Text:      strings.TrimSpace(msg.Text),
	}
	if traceID != "" {
		params.TraceID = &traceID
	}

	result, err := h.intake.Ingest(ctx, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUpdate) {
			metrics.UpdatesReceived.WithLabelValues("ignored").Inc()
			slog.WarnContext(ctx, "update missing ids ignored")
			c.JSON(http.StatusOK, dto.OKResponse{OK: true})
			return
		}
		metrics.UpdatesReceived.WithLabelValues("error").Inc()
		slog.ErrorContext(ctx, "failed to ingest update", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to record update"})
		return
	}

	metrics.UpdatesReceived.WithLabelValues(string(result.Outcome)).Inc()
	slog.InfoContext(ctx, "update received", "outcome", result.Outcome)
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
