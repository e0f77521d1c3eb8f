package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sawmill.app/ledger/common/id"
	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/store"
)

type IntakeParams struct {
	UpdateID  int64
	ChatID    int64
	MessageID int64
	Username  string
	Text      string
	TraceID   *string
}

type IntakeOutcome string

const (
	IntakeEnqueued    IntakeOutcome = "enqueued"
	IntakeDuplicate   IntakeOutcome = "duplicate"
	IntakeRateLimited IntakeOutcome = "rate_limited"
)

type IntakeResult struct {
	Message *model.IntakeMessage
	Outcome IntakeOutcome
}

// IntakeService records chat updates once and hands new ones to the worker.
type IntakeService interface {
	Ingest(ctx context.Context, params IntakeParams) (*IntakeResult, error)
}

var ErrInvalidUpdate = errors.New("update_id and chat_id are required")

type intakeService struct {
	intake  store.IntakeStore
	limiter RateLimiter
	queue   queue.Producer
}

// NewIntakeService wires the dedup ledger, the per-chat limiter and the stream producer.
// A nil limiter admits every message.
func NewIntakeService(intake store.IntakeStore, limiter RateLimiter, producer queue.Producer) IntakeService {
	return &intakeService{
		intake:  intake,
		limiter: limiter,
		queue:   producer,
	}
}

func (s *intakeService) Ingest(ctx context.Context, params IntakeParams) (*IntakeResult, error) {
	if params.UpdateID == 0 || params.ChatID == 0 {
		return nil, ErrInvalidUpdate
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UpdateID:  &params.UpdateID,
		ChatID:    &params.ChatID,
		Component: "ledger.service.intake",
	})

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, params.ChatID)
		if err != nil {
			// Fail open when Redis is unavailable.
			slog.WarnContext(ctx, "rate limiter unavailable, admitting message", "error", err)
		} else if !allowed {
			slog.WarnContext(ctx, "chat over rate limit, dropping message")
			return &IntakeResult{Outcome: IntakeRateLimited}, nil
		}
	}

	msg := &model.IntakeMessage{
		ID:        id.New(),
		UpdateID:  params.UpdateID,
		ChatID:    params.ChatID,
		MessageID: params.MessageID,
		Text:      params.Text,
		Status:    model.IntakeStatusPending,
	}
	if params.Username != "" {
		msg.Username = &params.Username
	}

	recorded, created, err := s.intake.CreateOrGet(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("recording intake message: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{IntakeID: &recorded.ID})

	// A redelivered update whose first enqueue failed is still pending: hand it over again.
	// The worker skips rows that are already finished.
	if !created && recorded.Status != model.IntakeStatusPending {
		slog.InfoContext(ctx, "duplicate update deduped", "status", recorded.Status)
		return &IntakeResult{Message: recorded, Outcome: IntakeDuplicate}, nil
	}

	if err := s.queue.Enqueue(ctx, queue.IntakeTask{
		IntakeID: recorded.ID,
		UpdateID: recorded.UpdateID,
		ChatID:   recorded.ChatID,
		TraceID:  params.TraceID,
		Attempt:  1,
	}); err != nil {
		return nil, fmt.Errorf("enqueueing intake message: %w", err)
	}

	if !created {
		slog.InfoContext(ctx, "pending duplicate re-enqueued")
		return &IntakeResult{Message: recorded, Outcome: IntakeDuplicate}, nil
	}
	return &IntakeResult{Message: recorded, Outcome: IntakeEnqueued}, nil
}
