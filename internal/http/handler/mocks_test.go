package handler_test

import (
	"context"

	"github.com/go-telegram/bot/models"

	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/service"
)

type mockIntakeService struct {
	ingestFn func(ctx context.Context, params service.IntakeParams) (*service.IntakeResult, error)
	calls    []service.IntakeParams
}

func (m *mockIntakeService) Ingest(ctx context.Context, params service.IntakeParams) (*service.IntakeResult, error) {
	m.calls = append(m.calls, params)
	if m.ingestFn != nil {
		return m.ingestFn(ctx, params)
	}
	return &service.IntakeResult{Outcome: service.IntakeEnqueued}, nil
}

type mockBot struct {
	getMeFn func(ctx context.Context) (*models.User, error)
	sendFn  func(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error)
}

func (m *mockBot) GetMe(ctx context.Context) (*models.User, error) {
	if m.getMeFn != nil {
		return m.getMeFn(ctx)
	}
	return &models.User{ID: 1, IsBot: true, Username: "sawmill_bot"}, nil
}

func (m *mockBot) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, chatID, text, replyTo)
	}
	return &models.Message{ID: 77, Chat: models.Chat{ID: chatID}}, nil
}

func (m *mockBot) MaskedToken() string {
	return "123456:****GHIJ"
}

type mockStockBatchStore struct {
	listRecentFn func(ctx context.Context, limit int32) ([]model.StockBatch, error)
	limits       []int32
}

func (m *mockStockBatchStore) Create(_ context.Context, batch *model.StockBatch) (*model.StockBatch, error) {
	return batch, nil
}

func (m *mockStockBatchStore) GetByID(context.Context, int64) (*model.StockBatch, error) {
	return nil, nil
}

func (m *mockStockBatchStore) ListRecent(ctx context.Context, limit int32) ([]model.StockBatch, error) {
	m.limits = append(m.limits, limit)
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}
