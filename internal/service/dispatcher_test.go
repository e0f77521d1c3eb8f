package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/service"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		stores     *mockStoreProvider
		dispatcher service.Dispatcher
		today      time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStoreProvider()
		clock := fixedClock()
		dispatcher = service.NewDispatcher(clock)
		today = clock.Today()
	})

	Describe("STOCK_IN", func() {
		It("creates a batch for the supplier dated today", func() {
			res, err := dispatcher.Apply(ctx, stores, domain.StockIn{
				SupplierName: "Kumar",
				QtyLogs:      50,
				VolumeCFT:    ptr(120.5),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.EventType).To(Equal(domain.EventTypeStockIn))
			Expect(res.RecordID).To(Equal(int64(1)))
			Expect(res.Reply).To(Equal("✅ Stock in recorded: batch #1, 50 logs from Kumar (120.5 cft) on 2024-06-12"))

			Expect(stores.suppliers.names).To(Equal([]string{"Kumar"}))
			Expect(stores.stockBatches.created).To(HaveLen(1))
			batch := stores.stockBatches.created[0]
			Expect(batch.SupplierID).To(Equal(int64(11)))
			Expect(batch.EntryDate.Equal(today)).To(BeTrue())
			Expect(batch.DateStr).To(BeNil())
		})

		It("keeps the written date and parses it", func() {
			_, err := dispatcher.Apply(ctx, stores, domain.StockIn{
				SupplierName: "Kumar",
				QtyLogs:      5,
				DateStr:      ptr("yesterday"),
			})

			Expect(err).NotTo(HaveOccurred())
			batch := stores.stockBatches.created[0]
			Expect(batch.DateStr).To(HaveValue(Equal("yesterday")))
			Expect(batch.EntryDate.Format("2006-01-02")).To(Equal("2024-06-11"))
		})

		It("uses the default supplier for a blank name", func() {
			res, err := dispatcher.Apply(ctx, stores, domain.StockIn{SupplierName: "  ", QtyLogs: 3})

			Expect(err).NotTo(HaveOccurred())
			Expect(stores.suppliers.names).To(Equal([]string{domain.DefaultSupplierName}))
			Expect(res.Reply).NotTo(ContainSubstring("cft"))
		})

		It("wraps supplier failures", func() {
			stores.suppliers.getOrCreateFn = func(context.Context, string) (*model.Supplier, error) {
				return nil, errors.New("db down")
			}

			_, err := dispatcher.Apply(ctx, stores, domain.StockIn{SupplierName: "Kumar", QtyLogs: 3})

			Expect(err).To(MatchError(ContainSubstring("resolving supplier")))
			Expect(stores.stockBatches.created).To(BeEmpty())
		})
	})

	Describe("PRODUCTION", func() {
		event := domain.Production{BatchID: 12, ThicknessMM: 50.8, WidthMM: 101.6, Qty: 200}

		It("records a run against an existing batch", func() {
			stores.stockBatches.getByIDFn = func(_ context.Context, id int64) (*model.StockBatch, error) {
				return &model.StockBatch{ID: id}, nil
			}

			res, err := dispatcher.Apply(ctx, stores, event)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(Equal("✅ Production recorded: run #1 from batch #12, 200 pcs 50.8x101.6 mm"))
			Expect(stores.productionRuns.created).To(HaveLen(1))
			Expect(stores.productionRuns.created[0].BatchID).To(Equal(int64(12)))
		})

		It("includes the length when present", func() {
			stores.stockBatches.getByIDFn = func(_ context.Context, id int64) (*model.StockBatch, error) {
				return &model.StockBatch{ID: id}, nil
			}
			withLength := event
			withLength.LengthMM = ptr(2438.4)

			res, err := dispatcher.Apply(ctx, stores, withLength)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(HaveSuffix("50.8x101.6x2438.4 mm"))
		})

		It("rejects an unknown batch", func() {
			_, err := dispatcher.Apply(ctx, stores, event)

			Expect(errors.Is(err, service.ErrReferenceNotFound)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("batch #12")))
			Expect(stores.productionRuns.created).To(BeEmpty())
		})

		It("does not treat lookup failures as missing references", func() {
			stores.stockBatches.getByIDFn = func(context.Context, int64) (*model.StockBatch, error) {
				return nil, errors.New("connection reset")
			}

			_, err := dispatcher.Apply(ctx, stores, event)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, service.ErrReferenceNotFound)).To(BeFalse())
		})
	})

	Describe("ORDER", func() {
		It("creates an open order with one item", func() {
			res, err := dispatcher.Apply(ctx, stores, domain.Order{
				CustomerName: "Ravi Traders",
				Qty:          100,
				SizeLabel:    ptr("2x4x8ft"),
				ThicknessMM:  ptr(50.8),
				WidthMM:      ptr(101.6),
				LengthMM:     ptr(2438.4),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(Equal("✅ Order #1 recorded for Ravi Traders: 100 pcs 2x4x8ft"))

			Expect(stores.orders.created).To(HaveLen(1))
			order := stores.orders.created[0]
			Expect(order.CustomerID).To(Equal(int64(21)))
			Expect(order.Status).To(Equal(model.OrderStatusOpen))

			Expect(stores.orders.items).To(HaveLen(1))
			item := stores.orders.items[0]
			Expect(item.OrderID).To(Equal(int64(1)))
			Expect(item.Qty).To(Equal(100))
			Expect(item.LengthMM).To(HaveValue(Equal(2438.4)))
		})

		It("falls back to dimensions and an unknown customer", func() {
			res, err := dispatcher.Apply(ctx, stores, domain.Order{
				Qty:         10,
				ThicknessMM: ptr(25.0),
				WidthMM:     ptr(100.0),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(stores.customers.names).To(Equal([]string{"Unknown"}))
			Expect(res.Reply).To(Equal("✅ Order #1 recorded for Unknown: 10 pcs 25x100 mm"))
		})
	})

	Describe("DELIVERY", func() {
		It("records the delivery and marks the order dispatched", func() {
			stores.orders.getByIDFn = func(_ context.Context, id int64) (*model.Order, error) {
				return &model.Order{ID: id, Status: model.OrderStatusOpen}, nil
			}

			res, err := dispatcher.Apply(ctx, stores, domain.Delivery{OrderID: 23, LorryNumber: " TN09AB1234 "})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(Equal("🚚 Delivery #1: order #23 dispatched on lorry TN09AB1234"))
			Expect(stores.deliveries.created[0].Status).To(Equal(model.DeliveryStatusDispatched))
			Expect(stores.orders.statusUpdates).To(HaveKeyWithValue(int64(23), model.OrderStatusDispatched))
		})

		It("omits the lorry when none was given", func() {
			stores.orders.getByIDFn = func(_ context.Context, id int64) (*model.Order, error) {
				return &model.Order{ID: id}, nil
			}

			res, err := dispatcher.Apply(ctx, stores, domain.Delivery{OrderID: 23})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(Equal("🚚 Delivery #1: order #23 dispatched"))
		})

		It("rejects an unknown order", func() {
			_, err := dispatcher.Apply(ctx, stores, domain.Delivery{OrderID: 99, LorryNumber: "KA01"})

			Expect(errors.Is(err, service.ErrReferenceNotFound)).To(BeTrue())
			Expect(stores.deliveries.created).To(BeEmpty())
			Expect(stores.orders.statusUpdates).To(BeEmpty())
		})
	})

	Describe("PAYMENT", func() {
		BeforeEach(func() {
			stores.orders.getByIDFn = func(_ context.Context, id int64) (*model.Order, error) {
				return &model.Order{ID: id}, nil
			}
		})

		It("records the payment and reports the running total", func() {
			_, err := dispatcher.Apply(ctx, stores, domain.Payment{OrderID: 23, Amount: 1000})
			Expect(err).NotTo(HaveOccurred())

			res, err := dispatcher.Apply(ctx, stores, domain.Payment{OrderID: 23, Amount: 1500, Method: ptr("upi")})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.RecordID).To(Equal(int64(2)))
			Expect(res.Reply).To(Equal("💰 Payment of 1500.00 recorded for order #23 (upi). Total paid: 2500.00"))
		})

		It("rounds amounts on their decimal value", func() {
			res, err := dispatcher.Apply(ctx, stores, domain.Payment{OrderID: 23, Amount: 2.675})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reply).To(Equal("💰 Payment of 2.68 recorded for order #23. Total paid: 2.68"))
		})

		It("rejects an unknown order", func() {
			stores.orders.getByIDFn = nil

			_, err := dispatcher.Apply(ctx, stores, domain.Payment{OrderID: 5, Amount: 10})

			Expect(errors.Is(err, service.ErrReferenceNotFound)).To(BeTrue())
			Expect(stores.payments.created).To(BeEmpty())
		})
	})

	Describe("REPORT", func() {
		It("summarizes today for a daily report", func() {
			stores.reports.summarizeFn = func(_ context.Context, from, to time.Time) (*model.LedgerSummary, error) {
				return &model.LedgerSummary{From: from, To: to, Batches: 2, LogsIn: 80, VolumeCFT: 200}, nil
			}

			res, err := dispatcher.Apply(ctx, stores, domain.DefaultReport())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.EventType).To(Equal(domain.EventTypeReport))
			Expect(res.RecordID).To(BeZero())
			Expect(res.Reply).To(HavePrefix("📊 Daily report (2024-06-12)"))
			Expect(res.Reply).To(ContainSubstring("Stock in: 2 batches, 80 logs, 200 cft"))
			Expect(stores.reports.calls).To(HaveLen(1))
			Expect(stores.reports.calls[0].From.Equal(today)).To(BeTrue())
		})

		It("returns summary failures", func() {
			stores.reports.summarizeFn = func(context.Context, time.Time, time.Time) (*model.LedgerSummary, error) {
				return nil, errors.New("timeout")
			}

			_, err := dispatcher.Apply(ctx, stores, domain.Report{Kind: "weekly"})

			Expect(err).To(MatchError(ContainSubstring("summarizing ledger")))
		})
	})

	It("refuses invalid events", func() {
		_, err := dispatcher.Apply(ctx, stores, domain.StockIn{QtyLogs: 0})

		var verr *domain.ValidationError
		Expect(errors.As(err, &verr)).To(BeTrue())
		Expect(stores.stockBatches.created).To(BeEmpty())
	})

	It("refuses a nil event", func() {
		_, err := dispatcher.Apply(ctx, stores, nil)

		Expect(err).To(HaveOccurred())
	})
})
