package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type deliveryStore struct {
	queries *sqlc.Queries
}

func newDeliveryStore(queries *sqlc.Queries) DeliveryStore {
	return &deliveryStore{queries: queries}
}

func (s *deliveryStore) Create(ctx context.Context, delivery *model.Delivery) (*model.Delivery, error) {
	status := delivery.Status
	if status == "" {
		status = model.DeliveryStatusDispatched
	}
	row, err := s.queries.CreateDelivery(ctx, sqlc.CreateDeliveryParams{
		OrderID:     delivery.OrderID,
		LorryNumber: delivery.LorryNumber,
		Status:      status,
		EntryDate:   toDate(delivery.EntryDate),
		DateStr:     delivery.DateStr,
	})
	if err != nil {
		return nil, err
	}
	return &model.Delivery{
		ID:          row.ID,
		OrderID:     row.OrderID,
		LorryNumber: row.LorryNumber,
		Status:      row.Status,
		EntryDate:   fromDate(row.EntryDate),
		DateStr:     row.DateStr,
		CreatedAt:   fromTimestamp(row.CreatedAt),
	}, nil
}
