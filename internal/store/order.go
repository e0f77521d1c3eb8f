package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type orderStore struct {
	queries *sqlc.Queries
}

func newOrderStore(queries *sqlc.Queries) OrderStore {
	return &orderStore{queries: queries}
}

func (s *orderStore) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	status := order.Status
	if status == "" {
		status = model.OrderStatusOpen
	}
	row, err := s.queries.CreateOrder(ctx, sqlc.CreateOrderParams{
		CustomerID: order.CustomerID,
		Status:     string(status),
		EntryDate:  toDate(order.EntryDate),
		DateStr:    order.DateStr,
	})
	if err != nil {
		return nil, err
	}
	return toOrderModel(row), nil
}

func (s *orderStore) AddItem(ctx context.Context, item *model.OrderItem) (*model.OrderItem, error) {
	qty, err := toInt32("qty", item.Qty)
	if err != nil {
		return nil, err
	}
	row, err := s.queries.CreateOrderItem(ctx, sqlc.CreateOrderItemParams{
		OrderID:     item.OrderID,
		Qty:         qty,
		SizeLabel:   item.SizeLabel,
		ThicknessMm: item.ThicknessMM,
		WidthMm:     item.WidthMM,
		LengthMm:    item.LengthMM,
	})
	if err != nil {
		return nil, err
	}
	return &model.OrderItem{
		ID:          row.ID,
		OrderID:     row.OrderID,
		Qty:         int(row.Qty),
		SizeLabel:   row.SizeLabel,
		ThicknessMM: row.ThicknessMm,
		WidthMM:     row.WidthMm,
		LengthMM:    row.LengthMm,
	}, nil
}

func (s *orderStore) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	row, err := s.queries.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toOrderModel(row), nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return s.queries.UpdateOrderStatus(ctx, sqlc.UpdateOrderStatusParams{
		ID:     id,
		Status: string(status),
	})
}

func toOrderModel(row sqlc.Order) *model.Order {
	return &model.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Status:     model.OrderStatus(row.Status),
		EntryDate:  fromDate(row.EntryDate),
		DateStr:    row.DateStr,
		CreatedAt:  fromTimestamp(row.CreatedAt),
		UpdatedAt:  fromTimestamp(row.UpdatedAt),
	}
}
