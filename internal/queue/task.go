package queue

// IntakeTask is the unit of work handed from the webhook to the worker: one recorded chat
// update waiting to be resolved and applied.
type IntakeTask struct {
	IntakeID int64
	UpdateID int64
	ChatID   int64
	TraceID  *string
	Attempt  int
}

func (t IntakeTask) values() map[string]any {
	attempt := t.Attempt
	if attempt <= 0 {
		attempt = 1
	}
	values := map[string]any{
		"intake_id": t.IntakeID,
		"update_id": t.UpdateID,
		"chat_id":   t.ChatID,
		"attempt":   attempt,
	}
	if t.TraceID != nil && *t.TraceID != "" {
		values["trace_id"] = *t.TraceID
	}
	return values
}
