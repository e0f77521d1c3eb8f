package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type paymentStore struct {
	queries *sqlc.Queries
}

func newPaymentStore(queries *sqlc.Queries) PaymentStore {
	return &paymentStore{queries: queries}
}

func (s *paymentStore) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	row, err := s.queries.CreatePayment(ctx, sqlc.CreatePaymentParams{
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		EntryDate: toDate(payment.EntryDate),
		DateStr:   payment.DateStr,
	})
	if err != nil {
		return nil, err
	}
	return &model.Payment{
		ID:        row.ID,
		OrderID:   row.OrderID,
		Amount:    row.Amount,
		Method:    row.Method,
		EntryDate: fromDate(row.EntryDate),
		DateStr:   row.DateStr,
		CreatedAt: fromTimestamp(row.CreatedAt),
	}, nil
}

func (s *paymentStore) TotalForOrder(ctx context.Context, orderID int64) (float64, error) {
	return s.queries.SumPaymentsForOrder(ctx, orderID)
}
