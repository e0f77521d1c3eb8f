package store

import (
	"sawmill.app/ledger/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Suppliers() SupplierStore {
	return newSupplierStore(s.queries)
}

func (s *Stores) Customers() CustomerStore {
	return newCustomerStore(s.queries)
}

func (s *Stores) StockBatches() StockBatchStore {
	return newStockBatchStore(s.queries)
}

func (s *Stores) ProductionRuns() ProductionRunStore {
	return newProductionRunStore(s.queries)
}

func (s *Stores) Orders() OrderStore {
	return newOrderStore(s.queries)
}

func (s *Stores) Deliveries() DeliveryStore {
	return newDeliveryStore(s.queries)
}

func (s *Stores) Payments() PaymentStore {
	return newPaymentStore(s.queries)
}

func (s *Stores) Reports() ReportStore {
	return newReportStore(s.queries)
}

func (s *Stores) Intake() IntakeStore {
	return newIntakeStore(s.queries)
}

func (s *Stores) LLMEvals() LLMEvalStore {
	return newLLMEvalStore(s.queries)
}
