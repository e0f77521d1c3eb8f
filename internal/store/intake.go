package store

import (
	"context"
	"encoding/json"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type intakeStore struct {
	queries *sqlc.Queries
}

func newIntakeStore(queries *sqlc.Queries) IntakeStore {
	return &intakeStore{queries: queries}
}

func (s *intakeStore) CreateOrGet(ctx context.Context, msg *model.IntakeMessage) (*model.IntakeMessage, bool, error) {
	row, err := s.queries.UpsertIntakeMessage(ctx, sqlc.UpsertIntakeMessageParams{
		ID:        msg.ID,
		UpdateID:  msg.UpdateID,
		ChatID:    msg.ChatID,
		MessageID: msg.MessageID,
		Username:  msg.Username,
		Text:      msg.Text,
	})
	if err != nil {
		return nil, false, err
	}
	created := row.ID == msg.ID
	return toIntakeModel(row), created, nil
}

func (s *intakeStore) GetByID(ctx context.Context, id int64) (*model.IntakeMessage, error) {
	row, err := s.queries.GetIntakeMessage(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toIntakeModel(row), nil
}

func (s *intakeStore) Claim(ctx context.Context, id int64) (*model.IntakeMessage, error) {
	row, err := s.queries.ClaimIntakeMessage(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toIntakeModel(row), nil
}

func (s *intakeStore) MarkProcessed(ctx context.Context, id int64, result model.IntakeResult) error {
	return s.queries.MarkIntakeProcessed(ctx, sqlc.MarkIntakeProcessedParams{
		ID:        id,
		EventType: strPtr(result.EventType),
		EventJson: []byte(result.EventJSON),
		Source:    strPtr(result.Source),
		ReplyText: strPtr(result.ReplyText),
	})
}

func (s *intakeStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return s.queries.MarkIntakeFailed(ctx, sqlc.MarkIntakeFailedParams{
		ID:    id,
		Error: &errMsg,
	})
}

func toIntakeModel(row sqlc.IntakeMessage) *model.IntakeMessage {
	return &model.IntakeMessage{
		ID:          row.ID,
		UpdateID:    row.UpdateID,
		ChatID:      row.ChatID,
		MessageID:   row.MessageID,
		Username:    row.Username,
		Text:        row.Text,
		Status:      model.IntakeStatus(row.Status),
		Attempts:    int(row.Attempts),
		EventType:   row.EventType,
		EventJSON:   json.RawMessage(row.EventJson),
		Source:      row.Source,
		ReplyText:   row.ReplyText,
		Error:       row.Error,
		CreatedAt:   fromTimestamp(row.CreatedAt),
		UpdatedAt:   fromTimestamp(row.UpdatedAt),
		ProcessedAt: fromTimestampPtr(row.ProcessedAt),
	}
}
