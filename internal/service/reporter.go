package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/store"
)

// ReportWindow is the inclusive date range a report kind covers.
type ReportWindow struct {
	Kind  string
	From  time.Time
	To    time.Time
	Known bool
}

type Reporter struct {
	clock Clock
}

func NewReporter(clock Clock) *Reporter {
	return &Reporter{clock: clock}
}

// Window maps a report kind to its dates. Unknown kinds are reported as daily.
func (r *Reporter) Window(kind string) ReportWindow {
	today := r.clock.Today()
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "daily", "day", "today":
		return ReportWindow{Kind: "daily", From: today, To: today, Known: true}
	case "weekly", "week":
		return ReportWindow{Kind: "weekly", From: today.AddDate(0, 0, -6), To: today, Known: true}
	case "monthly", "month":
		return ReportWindow{Kind: "monthly", From: today.AddDate(0, 0, -29), To: today, Known: true}
	default:
		return ReportWindow{Kind: domain.DefaultReportKind, From: today, To: today}
	}
}

// Report summarizes the ledger for the kind and renders the chat reply.
func (r *Reporter) Report(ctx context.Context, reports store.ReportStore, kind string) (string, *model.LedgerSummary, error) {
	w := r.Window(kind)
	summary, err := reports.Summarize(ctx, w.From, w.To)
	if err != nil {
		return "", nil, fmt.Errorf("summarizing ledger: %w", err)
	}

	text := FormatSummary(w, summary)
	if !w.Known && strings.TrimSpace(kind) != "" {
		text = fmt.Sprintf("Unknown report kind %q, showing daily.\n", kind) + text
	}
	return text, summary, nil
}

// FormatSummary renders a summary as the chat reply for window w.
func FormatSummary(w ReportWindow, s *model.LedgerSummary) string {
	var sb strings.Builder
	title := strings.ToUpper(w.Kind[:1]) + w.Kind[1:]
	if w.From.Equal(w.To) {
		fmt.Fprintf(&sb, "📊 %s report (%s)\n", title, w.From.Format(dateLayout))
	} else {
		fmt.Fprintf(&sb, "📊 %s report (%s to %s)\n", title, w.From.Format(dateLayout), w.To.Format(dateLayout))
	}
	fmt.Fprintf(&sb, "Stock in: %d batches, %d logs, %s cft\n", s.Batches, s.LogsIn, formatQty(s.VolumeCFT))
	fmt.Fprintf(&sb, "Production: %d runs, %d pcs\n", s.ProductionRuns, s.PiecesProduced)
	fmt.Fprintf(&sb, "Orders: %d (%d pcs)\n", s.Orders, s.PiecesOrdered)
	fmt.Fprintf(&sb, "Deliveries: %d\n", s.Deliveries)
	fmt.Fprintf(&sb, "Payments: %d, %s received", s.Payments, formatAmount(s.AmountReceived))
	return sb.String()
}

const dateLayout = "2006-01-02"
