package worker

import (
	"context"

	"sawmill.app/ledger/internal/parser"
	"sawmill.app/ledger/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// MessageProcessor handles one intake message end to end. A nil error means the entry can be
// acknowledged; any error is retried.
type MessageProcessor interface {
	Process(ctx context.Context, msg queue.Message) error
}

// FailureRecorder marks intake messages that ran out of attempts.
type FailureRecorder interface {
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

// Resolver turns message text into a ledger event.
type Resolver interface {
	Resolve(ctx context.Context, text string) parser.Resolution
}
