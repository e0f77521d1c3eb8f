package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type productionRunStore struct {
	queries *sqlc.Queries
}

func newProductionRunStore(queries *sqlc.Queries) ProductionRunStore {
	return &productionRunStore{queries: queries}
}

func (s *productionRunStore) Create(ctx context.Context, run *model.ProductionRun) (*model.ProductionRun, error) {
	qty, err := toInt32("qty", run.Qty)
	if err != nil {
		return nil, err
	}
	row, err := s.queries.CreateProductionRun(ctx, sqlc.CreateProductionRunParams{
		BatchID:     run.BatchID,
		ThicknessMm: run.ThicknessMM,
		WidthMm:     run.WidthMM,
		LengthMm:    run.LengthMM,
		Qty:         qty,
		EntryDate:   toDate(run.EntryDate),
		DateStr:     run.DateStr,
	})
	if err != nil {
		return nil, err
	}
	return &model.ProductionRun{
		ID:          row.ID,
		BatchID:     row.BatchID,
		ThicknessMM: row.ThicknessMm,
		WidthMM:     row.WidthMm,
		LengthMM:    row.LengthMm,
		Qty:         int(row.Qty),
		EntryDate:   fromDate(row.EntryDate),
		DateStr:     row.DateStr,
		CreatedAt:   fromTimestamp(row.CreatedAt),
	}, nil
}
