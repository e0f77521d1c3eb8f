package store

import (
	"context"
	"fmt"

	"sawmill.app/ledger/common"
	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type customerStore struct {
	queries *sqlc.Queries
}

func newCustomerStore(queries *sqlc.Queries) CustomerStore {
	return &customerStore{queries: queries}
}

func (s *customerStore) GetOrCreate(ctx context.Context, name string) (*model.Customer, error) {
	key, err := common.NameKey(name, "unknown")
	if err != nil {
		return nil, fmt.Errorf("customer name %q: %w", name, err)
	}
	row, err := s.queries.UpsertCustomer(ctx, sqlc.UpsertCustomerParams{Name: name, Slug: key})
	if err != nil {
		return nil, err
	}
	return &model.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Key:       row.Slug,
		Phone:     row.Phone,
		Address:   row.Address,
		CreatedAt: fromTimestamp(row.CreatedAt),
	}, nil
}
