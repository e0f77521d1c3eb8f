package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type llmEvalStore struct {
	queries *sqlc.Queries
}

func newLLMEvalStore(queries *sqlc.Queries) LLMEvalStore {
	return &llmEvalStore{queries: queries}
}

func (s *llmEvalStore) Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error) {
	row, err := s.queries.InsertLLMEval(ctx, sqlc.InsertLLMEvalParams{
		ID:               eval.ID,
		Stage:            eval.Stage,
		InputText:        eval.InputText,
		RawOutput:        eval.RawOutput,
		OutputJson:       []byte(eval.OutputJSON),
		Error:            eval.Error,
		Model:            eval.Model,
		LatencyMs:        int32Ptr(eval.LatencyMs),
		PromptTokens:     int32Ptr(eval.PromptTokens),
		CompletionTokens: int32Ptr(eval.CompletionTokens),
	})
	if err != nil {
		return nil, err
	}
	return toLLMEvalModel(row), nil
}

func (s *llmEvalStore) ListByStage(ctx context.Context, stage string, limit int32) ([]model.LLMEval, error) {
	rows, err := s.queries.ListLLMEvalsByStage(ctx, sqlc.ListLLMEvalsByStageParams{
		Stage: stage,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.LLMEval, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toLLMEvalModel(row))
	}
	return result, nil
}

func toLLMEvalModel(row sqlc.LlmEval) *model.LLMEval {
	return &model.LLMEval{
		ID:               row.ID,
		Stage:            row.Stage,
		InputText:        row.InputText,
		RawOutput:        row.RawOutput,
		OutputJSON:       row.OutputJson,
		Error:            row.Error,
		Model:            row.Model,
		LatencyMs:        intPtr(row.LatencyMs),
		PromptTokens:     intPtr(row.PromptTokens),
		CompletionTokens: intPtr(row.CompletionTokens),
		CreatedAt:        fromTimestamp(row.CreatedAt),
	}
}
