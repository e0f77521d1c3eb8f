package parser

import (
	"context"
	"errors"

	"sawmill.app/ledger/internal/domain"
)

// Source records which tier produced a resolution.
type Source string

const (
	SourceGrammar Source = "grammar"
	SourceOracle  Source = "oracle"
	// SourceDefault means both tiers gave up and the event is the REPORT/daily fallback.
	SourceDefault Source = "default"
)

// Resolution is the outcome of resolving one message. Event is never nil.
type Resolution struct {
	Event  domain.Event
	Source Source
	// GrammarMiss is why the grammar did not match; nil for SourceGrammar.
	GrammarMiss *NoMatchError
	// FallbackReason is set for SourceDefault.
	FallbackReason FallbackReason
	// OracleErr carries the underlying oracle failure for logging.
	OracleErr error
}

// IsDefault reports whether the event is the give-up fallback rather than a recognized request.
func (r Resolution) IsDefault() bool {
	return r.Source == SourceDefault
}

// Resolver is the single entry point: grammar first, oracle only on a grammar miss.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fallback *Fallback
}

func NewResolver(fallback *Fallback) *Resolver {
	if fallback == nil {
		fallback = NewFallback(nil, FallbackConfig{})
	}
	return &Resolver{fallback: fallback}
}

func (r *Resolver) Resolve(ctx context.Context, text string) Resolution {
	ev, err := Match(text)
	if err == nil {
		return Resolution{Event: ev, Source: SourceGrammar}
	}

	var miss *NoMatchError
	errors.As(err, &miss)

	ev, err = r.fallback.Parse(ctx, text)
	if err == nil {
		return Resolution{Event: ev, Source: SourceOracle, GrammarMiss: miss}
	}

	res := Resolution{
		Event:       domain.DefaultReport(),
		Source:      SourceDefault,
		GrammarMiss: miss,
		OracleErr:   err,
	}
	var oerr *OracleError
	if errors.As(err, &oerr) {
		res.FallbackReason = oerr.Reason
	}
	return res
}

// ResolveEvent is Resolve without the bookkeeping.
func (r *Resolver) ResolveEvent(ctx context.Context, text string) domain.Event {
	return r.Resolve(ctx, text).Event
}
