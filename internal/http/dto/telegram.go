package dto

import (
	"time"

	"github.com/go-telegram/bot/models"
)

type OKResponse struct {
	OK bool `json:"ok"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Env     string `json:"env"`
}

type GetMeResponse struct {
	OK    bool         `json:"ok"`
	Bot   *models.User `json:"bot"`
	Token string       `json:"token"`
}

type TestSendRequest struct {
	ChatID  int64  `json:"chat_id" binding:"required"`
	Text    string `json:"text" binding:"required"`
	ReplyTo int64  `json:"reply_to,omitempty"`
}

type TestSendResponse struct {
	OK        bool `json:"ok"`
	MessageID int  `json:"message_id"`
}

type StockBatchResponse struct {
	ID           int64     `json:"id"`
	SupplierName string    `json:"supplier_name"`
	QtyLogs      int       `json:"qty_logs"`
	VolumeCFT    *float64  `json:"volume_cft,omitempty"`
	EntryDate    string    `json:"entry_date"`
	DateStr      *string   `json:"date_str,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type StockResponse struct {
	OK      bool                 `json:"ok"`
	Batches []StockBatchResponse `json:"batches"`
}
