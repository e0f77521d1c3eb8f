package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Business context (intake_id, chat_id, ...) set once near the entry point shows up in
// every log statement made with that context.
type LogFields struct {
	IntakeID  *int64  // Intake message ID
	UpdateID  *int64  // Telegram update_id
	ChatID    *int64  // Telegram chat the message came from
	MessageID *string // Redis stream message ID
	EventType *string // Ledger event type (e.g., "STOCK_IN", "REPORT")
	Source    *string // grammar, oracle or default
	Component string  // Component name (e.g., "ledger.worker.processor")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.IntakeID != nil {
		result.IntakeID = new.IntakeID
	}
	if new.UpdateID != nil {
		result.UpdateID = new.UpdateID
	}
	if new.ChatID != nil {
		result.ChatID = new.ChatID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.EventType != nil {
		result.EventType = new.EventType
	}
	if new.Source != nil {
		result.Source = new.Source
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ChatID: logger.Ptr(chatID)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like queries or error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
