package parser_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sawmill.app/ledger/internal/domain"
	"sawmill.app/ledger/internal/parser"
)

var _ = Describe("Resolver", func() {
	ctx := context.Background()

	It("never consults the oracle when the grammar matches", func() {
		oracle := answering(`{"type":"REPORT","kind":"monthly"}`)
		r := parser.NewResolver(parser.NewFallback(oracle, parser.FallbackConfig{}))

		res := r.Resolve(ctx, "stockin supplier=Kumar qty=50")
		Expect(res.Source).To(Equal(parser.SourceGrammar))
		Expect(res.GrammarMiss).To(BeNil())
		Expect(res.Event).To(Equal(domain.StockIn{SupplierName: "Kumar", QtyLogs: 50}))
		Expect(oracle.calls).To(BeZero())
	})

	It("falls back to the oracle on a grammar miss", func() {
		oracle := answering(`{"type":"ORDER","customer_name":"Ravi","qty":10,"size_label":"2x4"}`)
		r := parser.NewResolver(parser.NewFallback(oracle, parser.FallbackConfig{}))

		res := r.Resolve(ctx, "ravi wants ten 2 by 4s")
		Expect(res.Source).To(Equal(parser.SourceOracle))
		Expect(res.GrammarMiss).NotTo(BeNil())
		Expect(res.Event.EventType()).To(Equal(domain.EventTypeOrder))
		Expect(oracle.calls).To(Equal(1))
	})

	It("consults the oracle when a known head fails validation", func() {
		oracle := answering(`{"type":"STOCK_IN","supplier_name":"Kumar","qty_logs":1}`)
		r := parser.NewResolver(parser.NewFallback(oracle, parser.FallbackConfig{}))

		res := r.Resolve(ctx, "stockin supplier=Kumar qty=0")
		Expect(res.Source).To(Equal(parser.SourceOracle))
		Expect(res.GrammarMiss.Head).To(Equal("stockin"))
	})

	It("resolves gibberish to REPORT/daily without credentials", func() {
		r := parser.NewResolver(nil)

		res := r.Resolve(ctx, "gibberish text with no structure")
		Expect(res.IsDefault()).To(BeTrue())
		Expect(res.Event).To(Equal(domain.Report{Kind: "daily"}))
		Expect(res.FallbackReason).To(Equal(parser.ReasonDisabled))
		Expect(r.ResolveEvent(ctx, "")).To(Equal(domain.DefaultReport()))
	})

	It("keeps the oracle failure for logging", func() {
		cause := errors.New("rate limited")
		oracle := &fakeOracle{ExtractFn: func(context.Context, string) (string, error) { return "", cause }}
		r := parser.NewResolver(parser.NewFallback(oracle, parser.FallbackConfig{}))

		res := r.Resolve(ctx, "what happened today")
		Expect(res.IsDefault()).To(BeTrue())
		Expect(res.FallbackReason).To(Equal(parser.ReasonUnavailable))
		Expect(errors.Is(res.OracleErr, cause)).To(BeTrue())
	})

	DescribeTable("is idempotent for grammar inputs",
		func(text string) {
			r := parser.NewResolver(nil)
			first := r.ResolveEvent(ctx, text)
			Expect(r.ResolveEvent(ctx, text)).To(Equal(first))
		},
		Entry("stock in", "stockin supplier=Kumar qty=50 volume=500cft"),
		Entry("production", "produce batch=12 size=2x4x8 qty=200"),
		Entry("order", "order customer=Ravi qty=10 size=2x4x8ft"),
		Entry("payment", "payment order=23 amount=15000 method=cash"),
		Entry("report", "report weekly"),
	)
})
