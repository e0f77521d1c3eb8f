package store

import (
	"context"
	"errors"
	"time"

	"sawmill.app/ledger/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// SupplierStore defines the contract for supplier data access
type SupplierStore interface {
	GetOrCreate(ctx context.Context, name string) (*model.Supplier, error)
}

// CustomerStore defines the contract for customer data access
type CustomerStore interface {
	GetOrCreate(ctx context.Context, name string) (*model.Customer, error)
}

// StockBatchStore defines the contract for log intake batches
type StockBatchStore interface {
	Create(ctx context.Context, batch *model.StockBatch) (*model.StockBatch, error)
	GetByID(ctx context.Context, id int64) (*model.StockBatch, error)
	ListRecent(ctx context.Context, limit int32) ([]model.StockBatch, error)
}

type ProductionRunStore interface {
	Create(ctx context.Context, run *model.ProductionRun) (*model.ProductionRun, error)
}

// OrderStore defines the contract for customer orders and their line items
type OrderStore interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	AddItem(ctx context.Context, item *model.OrderItem) (*model.OrderItem, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
}

type DeliveryStore interface {
	Create(ctx context.Context, delivery *model.Delivery) (*model.Delivery, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	TotalForOrder(ctx context.Context, orderID int64) (float64, error)
}

// ReportStore aggregates the ledger for REPORT events
type ReportStore interface {
	Summarize(ctx context.Context, from, to time.Time) (*model.LedgerSummary, error)
}

// IntakeStore is the dedup ledger of chat updates
type IntakeStore interface {
	// CreateOrGet inserts the message unless its update_id is already recorded.
	// The bool reports whether a new row was created.
	CreateOrGet(ctx context.Context, msg *model.IntakeMessage) (*model.IntakeMessage, bool, error)
	GetByID(ctx context.Context, id int64) (*model.IntakeMessage, error)
	// Claim moves a pending or processing message to processing. It returns ErrNotFound
	// when the message is missing or already finished.
	Claim(ctx context.Context, id int64) (*model.IntakeMessage, error)
	MarkProcessed(ctx context.Context, id int64, result model.IntakeResult) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

// LLMEvalStore records oracle calls
type LLMEvalStore interface {
	Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error)
	ListByStage(ctx context.Context, stage string, limit int32) ([]model.LLMEval, error)
}
