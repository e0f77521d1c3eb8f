package worker_test

import (
	"context"

	"github.com/go-telegram/bot/models"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/parser"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/store"
)

type mockConsumer struct {
	readFn    func(ctx context.Context) ([]queue.Message, error)
	requeueFn func(ctx context.Context, msg queue.Message, errMsg string) error
	acked     []string
	requeued  []string
	dlq       []string
	errors    []string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, errMsg string) error {
	m.requeued = append(m.requeued, msg.ID)
	m.errors = append(m.errors, errMsg)
	if m.requeueFn != nil {
		return m.requeueFn(ctx, msg, errMsg)
	}
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.dlq = append(m.dlq, msg.ID)
	m.errors = append(m.errors, errMsg)
	return nil
}

type mockMessageProcessor struct {
	processFn func(ctx context.Context, msg queue.Message) error
	seen      []queue.Message
}

func (m *mockMessageProcessor) Process(ctx context.Context, msg queue.Message) error {
	m.seen = append(m.seen, msg)
	if m.processFn != nil {
		return m.processFn(ctx, msg)
	}
	return nil
}

type mockFailureRecorder struct {
	failed map[int64]string
}

func (m *mockFailureRecorder) MarkFailed(_ context.Context, id int64, errMsg string) error {
	if m.failed == nil {
		m.failed = map[int64]string{}
	}
	m.failed[id] = errMsg
	return nil
}

type mockResolver struct {
	resolveFn func(ctx context.Context, text string) parser.Resolution
	texts     []string
}

func (m *mockResolver) Resolve(ctx context.Context, text string) parser.Resolution {
	m.texts = append(m.texts, text)
	if m.resolveFn != nil {
		return m.resolveFn(ctx, text)
	}
	return parser.Resolution{Event: domain.DefaultReport(), Source: parser.SourceDefault, FallbackReason: parser.ReasonDisabled}
}

type processedCall struct {
	ID     int64
	Result model.IntakeResult
}

type mockIntakeStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.IntakeMessage, error)
	claimFn         func(ctx context.Context, id int64) (*model.IntakeMessage, error)
	markProcessedFn func(ctx context.Context, id int64, result model.IntakeResult) error
	processed       []processedCall
	claimed         []int64
}

func (m *mockIntakeStore) CreateOrGet(_ context.Context, msg *model.IntakeMessage) (*model.IntakeMessage, bool, error) {
	return msg, true, nil
}

func (m *mockIntakeStore) GetByID(ctx context.Context, id int64) (*model.IntakeMessage, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockIntakeStore) Claim(ctx context.Context, id int64) (*model.IntakeMessage, error) {
	m.claimed = append(m.claimed, id)
	if m.claimFn != nil {
		return m.claimFn(ctx, id)
	}
	return &model.IntakeMessage{ID: id, Status: model.IntakeStatusProcessing}, nil
}

func (m *mockIntakeStore) MarkProcessed(ctx context.Context, id int64, result model.IntakeResult) error {
	if m.markProcessedFn != nil {
		if err := m.markProcessedFn(ctx, id, result); err != nil {
			return err
		}
	}
	m.processed = append(m.processed, processedCall{ID: id, Result: result})
	return nil
}

func (m *mockIntakeStore) MarkFailed(context.Context, int64, string) error {
	return nil
}

// mockStoreProvider only backs the intake store; the dispatcher is mocked.
type mockStoreProvider struct {
	intake *mockIntakeStore
}

func (m *mockStoreProvider) Suppliers() store.SupplierStore           { return nil }
func (m *mockStoreProvider) Customers() store.CustomerStore           { return nil }
func (m *mockStoreProvider) StockBatches() store.StockBatchStore      { return nil }
func (m *mockStoreProvider) ProductionRuns() store.ProductionRunStore { return nil }
func (m *mockStoreProvider) Orders() store.OrderStore                 { return nil }
func (m *mockStoreProvider) Deliveries() store.DeliveryStore          { return nil }
func (m *mockStoreProvider) Payments() store.PaymentStore             { return nil }
func (m *mockStoreProvider) Reports() store.ReportStore               { return nil }
func (m *mockStoreProvider) Intake() store.IntakeStore                { return m.intake }

// mockTxRunner runs fn directly and discards the writes it recorded when fn fails.
type mockTxRunner struct {
	stores   *mockStoreProvider
	commitFn func() error
	calls    int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	before := len(m.stores.intake.processed)
	if err := fn(m.stores); err != nil {
		m.stores.intake.processed = m.stores.intake.processed[:before]
		return err
	}
	if m.commitFn != nil {
		return m.commitFn()
	}
	return nil
}

type mockDispatcher struct {
	applyFn func(ctx context.Context, stores service.StoreProvider, ev domain.Event) (*service.ApplyResult, error)
	events  []domain.Event
}

func (m *mockDispatcher) Apply(ctx context.Context, stores service.StoreProvider, ev domain.Event) (*service.ApplyResult, error) {
	m.events = append(m.events, ev)
	if m.applyFn != nil {
		return m.applyFn(ctx, stores, ev)
	}
	return &service.ApplyResult{EventType: ev.EventType(), Reply: "applied " + string(ev.EventType())}, nil
}

type sentMessage struct {
	ChatID  int64
	Text    string
	ReplyTo int64
}

type mockSender struct {
	sendFn func(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error)
	sent   []sentMessage
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error) {
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, ReplyTo: replyTo})
	if m.sendFn != nil {
		return m.sendFn(ctx, chatID, text, replyTo)
	}
	return &models.Message{ID: len(m.sent)}, nil
}
