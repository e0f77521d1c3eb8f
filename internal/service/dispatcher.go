package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/store"
)

// ErrReferenceNotFound marks an event that points at a batch or order the ledger does not
// have. It is the sender's mistake, not a transient failure.
var ErrReferenceNotFound = errors.New("referenced record not found")

const unknownCustomer = "Unknown"

// ApplyResult is the outcome of writing one event to the ledger.
type ApplyResult struct {
	EventType domain.EventType
	// RecordID is the id of the row created, 0 for reports.
	RecordID int64
	Reply    string
}

// Dispatcher applies resolved events to the ledger.
type Dispatcher interface {
	// Apply writes ev through stores, which the caller binds to a transaction.
	Apply(ctx context.Context, stores StoreProvider, ev domain.Event) (*ApplyResult, error)
}

type dispatcher struct {
	clock    Clock
	reporter *Reporter
}

func NewDispatcher(clock Clock) Dispatcher {
	return &dispatcher{clock: clock, reporter: NewReporter(clock)}
}

func (d *dispatcher) Apply(ctx context.Context, stores StoreProvider, ev domain.Event) (*ApplyResult, error) {
	if ev == nil {
		return nil, errors.New("nil event")
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	var (
		res *ApplyResult
		err error
	)
	switch e := ev.(type) {
	case domain.StockIn:
		res, err = d.applyStockIn(ctx, stores, e)
	case domain.Production:
		res, err = d.applyProduction(ctx, stores, e)
	case domain.Order:
		res, err = d.applyOrder(ctx, stores, e)
	case domain.Delivery:
		res, err = d.applyDelivery(ctx, stores, e)
	case domain.Payment:
		res, err = d.applyPayment(ctx, stores, e)
	case domain.Report:
		res, err = d.applyReport(ctx, stores, e)
	default:
		return nil, fmt.Errorf("unsupported event %T", ev)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "event applied", "event_type", res.EventType, "record_id", res.RecordID)
	return res, nil
}

func (d *dispatcher) applyStockIn(ctx context.Context, stores StoreProvider, e domain.StockIn) (*ApplyResult, error) {
	name := strings.TrimSpace(e.SupplierName)
	if name == "" {
		name = domain.DefaultSupplierName
	}
	supplier, err := stores.Suppliers().GetOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving supplier: %w", err)
	}

	batch, err := stores.StockBatches().Create(ctx, &model.StockBatch{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		QtyLogs:      e.QtyLogs,
		VolumeCFT:    e.VolumeCFT,
		EntryDate:    d.clock.EntryDate(e.DateStr),
		DateStr:      e.DateStr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating stock batch: %w", err)
	}

	reply := fmt.Sprintf("✅ Stock in recorded: batch #%d, %d logs from %s", batch.ID, batch.QtyLogs, supplier.Name)
	if batch.VolumeCFT != nil {
		reply += fmt.Sprintf(" (%s cft)", formatQty(*batch.VolumeCFT))
	}
	reply += " on " + batch.EntryDate.Format(dateLayout)
	return &ApplyResult{EventType: domain.EventTypeStockIn, RecordID: batch.ID, Reply: reply}, nil
}

func (d *dispatcher) applyProduction(ctx context.Context, stores StoreProvider, e domain.Production) (*ApplyResult, error) {
	if _, err := stores.StockBatches().GetByID(ctx, e.BatchID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: batch #%d", ErrReferenceNotFound, e.BatchID)
		}
		return nil, fmt.Errorf("loading batch: %w", err)
	}

	run, err := stores.ProductionRuns().Create(ctx, &model.ProductionRun{
		BatchID:     e.BatchID,
		ThicknessMM: e.ThicknessMM,
		WidthMM:     e.WidthMM,
		LengthMM:    e.LengthMM,
		Qty:         e.Qty,
		EntryDate:   d.clock.EntryDate(e.DateStr),
		DateStr:     e.DateStr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating production run: %w", err)
	}

	reply := fmt.Sprintf("✅ Production recorded: run #%d from batch #%d, %d pcs %s",
		run.ID, run.BatchID, run.Qty, formatDims(&run.ThicknessMM, &run.WidthMM, run.LengthMM))
	return &ApplyResult{EventType: domain.EventTypeProduction, RecordID: run.ID, Reply: reply}, nil
}

func (d *dispatcher) applyOrder(ctx context.Context, stores StoreProvider, e domain.Order) (*ApplyResult, error) {
	name := strings.TrimSpace(e.CustomerName)
	if name == "" {
		name = unknownCustomer
	}
	customer, err := stores.Customers().GetOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving customer: %w", err)
	}

	order, err := stores.Orders().Create(ctx, &model.Order{
		CustomerID: customer.ID,
		Status:     model.OrderStatusOpen,
		EntryDate:  d.clock.EntryDate(e.DateStr),
		DateStr:    e.DateStr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	if _, err := stores.Orders().AddItem(ctx, &model.OrderItem{
		OrderID:     order.ID,
		Qty:         e.Qty,
		SizeLabel:   e.SizeLabel,
		ThicknessMM: e.ThicknessMM,
		WidthMM:     e.WidthMM,
		LengthMM:    e.LengthMM,
	}); err != nil {
		return nil, fmt.Errorf("adding order item: %w", err)
	}

	reply := fmt.Sprintf("✅ Order #%d recorded for %s: %d pcs", order.ID, customer.Name, e.Qty)
	switch {
	case e.SizeLabel != nil:
		reply += " " + *e.SizeLabel
	case e.ThicknessMM != nil && e.WidthMM != nil:
		reply += " " + formatDims(e.ThicknessMM, e.WidthMM, e.LengthMM)
	}
	return &ApplyResult{EventType: domain.EventTypeOrder, RecordID: order.ID, Reply: reply}, nil
}

func (d *dispatcher) applyDelivery(ctx context.Context, stores StoreProvider, e domain.Delivery) (*ApplyResult, error) {
	if _, err := d.loadOrder(ctx, stores, e.OrderID); err != nil {
		return nil, err
	}

	delivery, err := stores.Deliveries().Create(ctx, &model.Delivery{
		OrderID:     e.OrderID,
		LorryNumber: strings.TrimSpace(e.LorryNumber),
		Status:      model.DeliveryStatusDispatched,
		EntryDate:   d.clock.EntryDate(e.DateStr),
		DateStr:     e.DateStr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating delivery: %w", err)
	}

	if err := stores.Orders().UpdateStatus(ctx, e.OrderID, model.OrderStatusDispatched); err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	reply := fmt.Sprintf("🚚 Delivery #%d: order #%d dispatched", delivery.ID, delivery.OrderID)
	if delivery.LorryNumber != "" {
		reply += " on lorry " + delivery.LorryNumber
	}
	return &ApplyResult{EventType: domain.EventTypeDelivery, RecordID: delivery.ID, Reply: reply}, nil
}

func (d *dispatcher) applyPayment(ctx context.Context, stores StoreProvider, e domain.Payment) (*ApplyResult, error) {
	if _, err := d.loadOrder(ctx, stores, e.OrderID); err != nil {
		return nil, err
	}

	payment, err := stores.Payments().Create(ctx, &model.Payment{
		OrderID:   e.OrderID,
		Amount:    e.Amount,
		Method:    e.Method,
		EntryDate: d.clock.EntryDate(e.DateStr),
		DateStr:   e.DateStr,
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	total, err := stores.Payments().TotalForOrder(ctx, e.OrderID)
	if err != nil {
		return nil, fmt.Errorf("totalling payments: %w", err)
	}

	reply := fmt.Sprintf("💰 Payment of %s recorded for order #%d", formatAmount(payment.Amount), payment.OrderID)
	if payment.Method != nil {
		reply += fmt.Sprintf(" (%s)", *payment.Method)
	}
	reply += fmt.Sprintf(". Total paid: %s", formatAmount(total))
	return &ApplyResult{EventType: domain.EventTypePayment, RecordID: payment.ID, Reply: reply}, nil
}

func (d *dispatcher) applyReport(ctx context.Context, stores StoreProvider, e domain.Report) (*ApplyResult, error) {
	text, _, err := d.reporter.Report(ctx, stores.Reports(), e.Kind)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{EventType: domain.EventTypeReport, Reply: text}, nil
}

func (d *dispatcher) loadOrder(ctx context.Context, stores StoreProvider, orderID int64) (*model.Order, error) {
	order, err := stores.Orders().GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: order #%d", ErrReferenceNotFound, orderID)
		}
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return order, nil
}

func formatDims(thickness, width, length *float64) string {
	parts := []string{formatQty(*thickness), formatQty(*width)}
	if length != nil {
		parts = append(parts, formatQty(*length))
	}
	return strings.Join(parts, "x") + " mm"
}

// formatQty prints at most one decimal and drops a trailing ".0".
func formatQty(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String()
}

// formatAmount rounds half away from zero on the decimal value, so 2.675 prints as 2.68.
func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
