package model

import (
	"encoding/json"
	"time"
)

const LLMEvalStageEventFallback = "event_fallback"

// LLMEval is one recorded oracle call, kept for offline review of the fallback prompt.
type LLMEval struct {
	CreatedAt        time.Time       `json:"created_at"`
	RawOutput        *string         `json:"raw_output,omitempty"`
	Error            *string         `json:"error,omitempty"`
	LatencyMs        *int            `json:"latency_ms,omitempty"`
	PromptTokens     *int            `json:"prompt_tokens,omitempty"`
	CompletionTokens *int            `json:"completion_tokens,omitempty"`
	OutputJSON       json.RawMessage `json:"output_json,omitempty"`
	Stage            string          `json:"stage"`
	InputText        string          `json:"input_text"`
	Model            string          `json:"model"`
	ID               int64           `json:"id"`
}
