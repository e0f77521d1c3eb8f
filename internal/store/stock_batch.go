package store

import (
	"context"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type stockBatchStore struct {
	queries *sqlc.Queries
}

func newStockBatchStore(queries *sqlc.Queries) StockBatchStore {
	return &stockBatchStore{queries: queries}
}

func (s *stockBatchStore) Create(ctx context.Context, batch *model.StockBatch) (*model.StockBatch, error) {
	qty, err := toInt32("qty_logs", batch.QtyLogs)
	if err != nil {
		return nil, err
	}
	row, err := s.queries.CreateStockBatch(ctx, sqlc.CreateStockBatchParams{
		SupplierID: batch.SupplierID,
		QtyLogs:    qty,
		VolumeCft:  batch.VolumeCFT,
		EntryDate:  toDate(batch.EntryDate),
		DateStr:    batch.DateStr,
	})
	if err != nil {
		return nil, err
	}
	out := toStockBatchModel(row)
	out.SupplierName = batch.SupplierName
	return out, nil
}

func (s *stockBatchStore) GetByID(ctx context.Context, id int64) (*model.StockBatch, error) {
	row, err := s.queries.GetStockBatch(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toStockBatchModel(row), nil
}

func (s *stockBatchStore) ListRecent(ctx context.Context, limit int32) ([]model.StockBatch, error) {
	rows, err := s.queries.ListRecentStockBatches(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]model.StockBatch, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.StockBatch{
			ID:           row.ID,
			SupplierID:   row.SupplierID,
			SupplierName: row.SupplierName,
			QtyLogs:      int(row.QtyLogs),
			VolumeCFT:    row.VolumeCft,
			EntryDate:    fromDate(row.EntryDate),
			DateStr:      row.DateStr,
			CreatedAt:    fromTimestamp(row.CreatedAt),
		})
	}
	return result, nil
}

func toStockBatchModel(row sqlc.StockBatch) *model.StockBatch {
	return &model.StockBatch{
		ID:         row.ID,
		SupplierID: row.SupplierID,
		QtyLogs:    int(row.QtyLogs),
		VolumeCFT:  row.VolumeCft,
		EntryDate:  fromDate(row.EntryDate),
		DateStr:    row.DateStr,
		CreatedAt:  fromTimestamp(row.CreatedAt),
	}
}
