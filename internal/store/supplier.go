package store

import (
	"context"
	"fmt"

	"sawmill.app/ledger/common"
	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type supplierStore struct {
	queries *sqlc.Queries
}

func newSupplierStore(queries *sqlc.Queries) SupplierStore {
	return &supplierStore{queries: queries}
}

func (s *supplierStore) GetOrCreate(ctx context.Context, name string) (*model.Supplier, error) {
	key, err := common.NameKey(name, "unknown")
	if err != nil {
		return nil, fmt.Errorf("supplier name %q: %w", name, err)
	}
	row, err := s.queries.UpsertSupplier(ctx, sqlc.UpsertSupplierParams{Name: name, Slug: key})
	if err != nil {
		return nil, err
	}
	return &model.Supplier{
		ID:        row.ID,
		Name:      row.Name,
		Key:       row.Slug,
		Phone:     row.Phone,
		Address:   row.Address,
		CreatedAt: fromTimestamp(row.CreatedAt),
	}, nil
}
