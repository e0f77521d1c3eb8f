package store

import (
	"context"
	"time"

	"sawmill.app/ledger/core/db/sqlc"
	"sawmill.app/ledger/internal/model"
)

type reportStore struct {
	queries *sqlc.Queries
}

func newReportStore(queries *sqlc.Queries) ReportStore {
	return &reportStore{queries: queries}
}

func (s *reportStore) Summarize(ctx context.Context, from, to time.Time) (*model.LedgerSummary, error) {
	row, err := s.queries.SummarizeLedger(ctx, sqlc.SummarizeLedgerParams{
		FromDate: toDate(from),
		ToDate:   toDate(to),
	})
	if err != nil {
		return nil, err
	}
	return &model.LedgerSummary{
		From:           from,
		To:             to,
		Batches:        row.Batches,
		LogsIn:         row.LogsIn,
		VolumeCFT:      row.VolumeCft,
		ProductionRuns: row.ProductionRuns,
		PiecesProduced: row.PiecesProduced,
		Orders:         row.Orders,
		PiecesOrdered:  row.PiecesOrdered,
		Deliveries:     row.Deliveries,
		Payments:       row.Payments,
		AmountReceived: row.AmountReceived,
	}, nil
}
