package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"

	"sawmill.app/ledger/internal/http/dto"
	"sawmill.app/ledger/internal/store"
)

const recentBatchLimit = 10

// BotAPI is the part of the Telegram client the debug routes use.
type BotAPI interface {
	GetMe(ctx context.Context) (*models.User, error)
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error)
	MaskedToken() string
}

type DebugHandler struct {
	bot     BotAPI
	batches store.StockBatchStore
}

func NewDebugHandler(bot BotAPI, batches store.StockBatchStore) *DebugHandler {
	return &DebugHandler{bot: bot, batches: batches}
}

func (h *DebugHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	info, err := h.bot.GetMe(ctx)
	if err != nil {
		slog.WarnContext(ctx, "getMe failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error(), "token": h.bot.MaskedToken()})
		return
	}

	c.JSON(http.StatusOK, dto.GetMeResponse{OK: true, Bot: info, Token: h.bot.MaskedToken()})
}

func (h *DebugHandler) TestSend(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	sent, err := h.bot.SendMessage(ctx, req.ChatID, req.Text, req.ReplyTo)
	if err != nil {
		slog.WarnContext(ctx, "test send failed", "error", err, "chat_id", req.ChatID)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.TestSendResponse{OK: true, MessageID: sent.ID})
}

func (h *DebugHandler) Stock(c *gin.Context) {
	ctx := c.Request.Context()

	batches, err := h.batches.ListRecent(ctx, recentBatchLimit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list stock batches", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list stock batches"})
		return
	}

	resp := dto.StockResponse{OK: true, Batches: make([]dto.StockBatchResponse, 0, len(batches))}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, dto.StockBatchResponse{
			ID:           b.ID,
			SupplierName: b.SupplierName,
			QtyLogs:      b.QtyLogs,
			VolumeCFT:    b.VolumeCFT,
			EntryDate:    b.EntryDate.Format("2006-01-02"),
			DateStr:      b.DateStr,
			CreatedAt:    b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
