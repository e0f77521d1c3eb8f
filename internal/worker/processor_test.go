package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/parser"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/store"
	"sawmill.app/ledger/internal/worker"
)

var _ = Describe("Processor", func() {
	var (
		ctx        context.Context
		intake     *mockIntakeStore
		txRunner   *mockTxRunner
		resolver   *mockResolver
		dispatcher *mockDispatcher
		sender     *mockSender
		processor  *worker.Processor
		msg        queue.Message
		row        *model.IntakeMessage
	)

	BeforeEach(func() {
		ctx = context.Background()
		row = &model.IntakeMessage{
			ID:        42,
			UpdateID:  7,
			ChatID:    -100,
			MessageID: 9,
			Text:      "stockin qty=50 supplier=Kumar",
			Status:    model.IntakeStatusPending,
		}
		intake = &mockIntakeStore{
			getByIDFn: func(context.Context, int64) (*model.IntakeMessage, error) {
				return row, nil
			},
		}
		txRunner = &mockTxRunner{stores: &mockStoreProvider{intake: intake}}
		resolver = &mockResolver{
			resolveFn: func(_ context.Context, text string) parser.Resolution {
				ev, ok := parser.TryParse(text)
				if !ok {
					return parser.Resolution{Event: domain.DefaultReport(), Source: parser.SourceDefault}
				}
				return parser.Resolution{Event: ev, Source: parser.SourceGrammar}
			},
		}
		dispatcher = &mockDispatcher{}
		sender = &mockSender{}
		processor = worker.NewProcessor(intake, txRunner, resolver, dispatcher, sender)
		msg = queue.Message{ID: "1-0", IntakeID: 42, ChatID: -100, Attempt: 1}
	})

	It("applies the resolved event, records it and replies", func() {
		Expect(processor.Process(ctx, msg)).To(Succeed())

		Expect(resolver.texts).To(Equal([]string{row.Text}))
		Expect(dispatcher.events).To(ConsistOf(domain.StockIn{SupplierName: "Kumar", QtyLogs: 50}))
		Expect(intake.claimed).To(Equal([]int64{42}))

		Expect(intake.processed).To(HaveLen(1))
		result := intake.processed[0].Result
		Expect(result.EventType).To(Equal("STOCK_IN"))
		Expect(result.Source).To(Equal("grammar"))
		Expect(result.ReplyText).To(Equal("applied STOCK_IN"))

		var stored map[string]any
		Expect(json.Unmarshal(result.EventJSON, &stored)).To(Succeed())
		Expect(stored).To(HaveKeyWithValue("type", "STOCK_IN"))

		Expect(sender.sent).To(ConsistOf(sentMessage{ChatID: -100, Text: "applied STOCK_IN", ReplyTo: 9}))
	})

	DescribeTable("answers help commands without resolving",
		func(text string) {
			row.Text = text

			Expect(processor.Process(ctx, msg)).To(Succeed())

			Expect(resolver.texts).To(BeEmpty())
			Expect(dispatcher.events).To(BeEmpty())
			Expect(intake.processed).To(HaveLen(1))
			Expect(intake.processed[0].Result.Source).To(Equal(worker.SourceHelp))
			Expect(sender.sent).To(HaveLen(1))
			Expect(sender.sent[0].Text).To(Equal(worker.HelpText))
		},
		Entry("start", "/start"),
		Entry("help", "help"),
		Entry("slash help, any case", " /HELP "),
	)

	It("prefixes the default report with a hint", func() {
		resolver.resolveFn = nil
		row.Text = "hello there"

		Expect(processor.Process(ctx, msg)).To(Succeed())

		result := intake.processed[0].Result
		Expect(result.Source).To(Equal("default"))
		Expect(result.EventType).To(Equal("REPORT"))
		Expect(result.ReplyText).To(HavePrefix(worker.DefaultHint))
		Expect(result.ReplyText).To(HaveSuffix("applied REPORT"))
	})

	It("does not add the hint to a report the sender asked for", func() {
		row.Text = "report weekly"

		Expect(processor.Process(ctx, msg)).To(Succeed())

		Expect(intake.processed[0].Result.ReplyText).To(Equal("applied REPORT"))
	})

	It("skips rows that are already finished", func() {
		row.Status = model.IntakeStatusProcessed

		Expect(processor.Process(ctx, msg)).To(Succeed())

		Expect(resolver.texts).To(BeEmpty())
		Expect(txRunner.calls).To(BeZero())
		Expect(sender.sent).To(BeEmpty())
	})

	It("skips a missing row", func() {
		intake.getByIDFn = nil

		Expect(processor.Process(ctx, msg)).To(Succeed())
		Expect(txRunner.calls).To(BeZero())
	})

	It("skips a row another worker finished meanwhile", func() {
		intake.claimFn = func(context.Context, int64) (*model.IntakeMessage, error) {
			return nil, store.ErrNotFound
		}

		Expect(processor.Process(ctx, msg)).To(Succeed())

		Expect(dispatcher.events).To(BeEmpty())
		Expect(intake.processed).To(BeEmpty())
		Expect(sender.sent).To(BeEmpty())
	})

	It("replies with the reason when a reference is unknown", func() {
		row.Text = "dispatch order=99 lorry=KA01"
		dispatcher.applyFn = func(context.Context, service.StoreProvider, domain.Event) (*service.ApplyResult, error) {
			return nil, fmt.Errorf("%w: order #99", service.ErrReferenceNotFound)
		}

		Expect(processor.Process(ctx, msg)).To(Succeed())

		Expect(intake.processed).To(HaveLen(1))
		Expect(intake.processed[0].Result.EventType).To(Equal("DELIVERY"))
		Expect(sender.sent).To(HaveLen(1))
		Expect(sender.sent[0].Text).To(ContainSubstring("order #99"))
	})

	It("returns transient failures without marking or replying", func() {
		dispatcher.applyFn = func(context.Context, service.StoreProvider, domain.Event) (*service.ApplyResult, error) {
			return nil, errors.New("connection reset")
		}

		err := processor.Process(ctx, msg)

		Expect(err).To(MatchError(ContainSubstring("applying STOCK_IN")))
		Expect(intake.processed).To(BeEmpty())
		Expect(sender.sent).To(BeEmpty())
	})

	It("returns commit failures without replying", func() {
		txRunner.commitFn = func() error { return errors.New("commit failed") }

		Expect(processor.Process(ctx, msg)).To(MatchError("commit failed"))
		Expect(sender.sent).To(BeEmpty())
	})

	It("returns load failures", func() {
		intake.getByIDFn = func(context.Context, int64) (*model.IntakeMessage, error) {
			return nil, errors.New("db down")
		}

		Expect(processor.Process(ctx, msg)).To(MatchError(ContainSubstring("loading intake message")))
	})

	It("treats a failed reply as done", func() {
		sender.sendFn = func(context.Context, int64, string, int64) (*models.Message, error) {
			return nil, errors.New("telegram down")
		}

		Expect(processor.Process(ctx, msg)).To(Succeed())
		Expect(intake.processed).To(HaveLen(1))
	})

	It("records without replying when no sender is configured", func() {
		processor = worker.NewProcessor(intake, txRunner, resolver, dispatcher, nil)

		Expect(processor.Process(ctx, msg)).To(Succeed())
		Expect(intake.processed).To(HaveLen(1))
	})
})
