package model

import (
	"encoding/json"
	"time"
)

type IntakeStatus string

const (
	IntakeStatusPending    IntakeStatus = "pending"
	IntakeStatusProcessing IntakeStatus = "processing"
	IntakeStatusProcessed  IntakeStatus = "processed"
	IntakeStatusFailed     IntakeStatus = "failed"
)

// IntakeMessage is one chat update in the dedup ledger. UpdateID is unique.
type IntakeMessage struct {
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Username    *string         `json:"username,omitempty"`
	EventType   *string         `json:"event_type,omitempty"`
	Source      *string         `json:"source,omitempty"`
	ReplyText   *string         `json:"reply_text,omitempty"`
	Error       *string         `json:"error,omitempty"`
	EventJSON   json.RawMessage `json:"event_json,omitempty"`
	Text        string          `json:"text"`
	Status      IntakeStatus    `json:"status"`
	ID          int64           `json:"id"`
	UpdateID    int64           `json:"update_id"`
	ChatID      int64           `json:"chat_id"`
	MessageID   int64           `json:"message_id"`
	Attempts    int             `json:"attempts"`
}

// IntakeResult is what the worker records when a message is done.
type IntakeResult struct {
	EventType string
	EventJSON json.RawMessage
	Source    string
	ReplyText string
}
