package service

import (
	"context"

	"sawmill.app/ledger/core/db"
	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Suppliers() store.SupplierStore
	Customers() store.CustomerStore
	StockBatches() store.StockBatchStore
	ProductionRuns() store.ProductionRunStore
	Orders() store.OrderStore
	Deliveries() store.DeliveryStore
	Payments() store.PaymentStore
	Reports() store.ReportStore
	Intake() store.IntakeStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
