package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "sawmill-ledger"

// SpanContext is an open span plus the context that carries it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan opens a child of whatever span ctx carries.
//
//	sc := logger.StartSpan(ctx, "dispatcher.apply")
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	return start(ctx, name, opts...)
}

// StartSpanFromTraceID continues the webhook request's trace in the worker. The intake message
// carries the trace id across the Redis stream; the worker span becomes its remote child and
// links back to it. A blank or malformed id starts a fresh trace.
//
//	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_intake",
//		trace.WithSpanKind(trace.SpanKindConsumer))
//	defer sc.End()
func StartSpanFromTraceID(ctx context.Context, traceIDStr string, name string, opts ...trace.SpanStartOption) *SpanContext {
	traceID, err := trace.TraceIDFromHex(traceIDStr)
	if traceIDStr == "" || err != nil {
		return start(ctx, name, opts...)
	}

	remote := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	opts = append(opts, trace.WithLinks(trace.Link{SpanContext: remote}))
	return start(trace.ContextWithRemoteSpanContext(ctx, remote), name, opts...)
}

func start(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

// End closes the span. Later calls do nothing.
func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError marks the span with err. A nil err is ignored.
func (sc *SpanContext) RecordError(err error) {
	if sc.span != nil && err != nil {
		sc.span.RecordError(err)
	}
}

func (sc *SpanContext) Span() trace.Span {
	return sc.span
}
