package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task IntakeTask) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task IntakeTask) error {
	values := task.values()

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue intake: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued intake message",
		"intake_id", task.IntakeID,
		"update_id", task.UpdateID,
		"chat_id", task.ChatID,
		"attempt", values["attempt"])
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
