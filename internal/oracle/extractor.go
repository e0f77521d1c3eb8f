package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sawmill.app/ledger/common/id"
	"sawmill.app/ledger/common/llm"
	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/store"
)

const (
	defaultMaxTokens = 512
	maxAttempts      = 2
	evalWriteTimeout = 2 * time.Second
)

// Extractor asks the LLM for one event object. It satisfies parser.Oracle and returns the
// raw model output; interpretation stays with the parser.
type Extractor struct {
	llm          llm.Client
	evals        store.LLMEvalStore
	maxTokens    int
	retryBackoff time.Duration

	pending sync.WaitGroup
}

type Option func(*Extractor)

// WithEvalStore records every call to llm_evals. Records are written in the background;
// failures are logged and ignored.
func WithEvalStore(evals store.LLMEvalStore) Option {
	return func(e *Extractor) { e.evals = evals }
}

func WithMaxTokens(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithRetryBackoff sets the pause before the single retry of a retryable failure.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Extractor) { e.retryBackoff = d }
}

func New(client llm.Client, opts ...Option) *Extractor {
	e := &Extractor{
		llm:          client,
		maxTokens:    defaultMaxTokens,
		retryBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, text string) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "oracle"})

	req := llm.Request{
		Messages:    buildMessages(text),
		MaxTokens:   e.maxTokens,
		Temperature: llm.Temp(0),
	}

	start := time.Now()
	var (
		resp *llm.Response
		err  error
	)
	for attempt := 1; ; attempt++ {
		resp, err = e.llm.Complete(ctx, req)
		if err == nil || attempt == maxAttempts || !llm.IsRetryable(ctx, err) {
			break
		}
		slog.WarnContext(ctx, "oracle call retry", "attempt", attempt, "error", err)
		if waitErr := sleep(ctx, e.retryBackoff); waitErr != nil {
			err = waitErr
			break
		}
	}
	latency := time.Since(start)

	e.logEval(ctx, text, resp, err, latency)

	if err != nil {
		return "", fmt.Errorf("oracle extract: %w", err)
	}

	slog.DebugContext(ctx, "oracle answered",
		"latency_ms", latency.Milliseconds(),
		"output", logger.Truncate(resp.Content, 200))
	return resp.Content, nil
}

func (e *Extractor) logEval(ctx context.Context, text string, resp *llm.Response, callErr error, latency time.Duration) {
	if e.evals == nil {
		return
	}

	eval := &model.LLMEval{
		ID:        id.New(),
		Stage:     model.LLMEvalStageEventFallback,
		InputText: text,
		Model:     e.llm.Model(),
		LatencyMs: intPtr(int(latency.Milliseconds())),
	}
	if resp != nil {
		eval.RawOutput = &resp.Content
		if json.Valid([]byte(resp.Content)) {
			eval.OutputJSON = json.RawMessage(resp.Content)
		}
		eval.PromptTokens = intPtr(resp.PromptTokens)
		eval.CompletionTokens = intPtr(resp.CompletionTokens)
	}
	if callErr != nil {
		msg := callErr.Error()
		eval.Error = &msg
	}

	// Detached from the call: its deadline is the oracle budget, which may already be spent.
	writeCtx := context.WithoutCancel(ctx)
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		writeCtx, cancel := context.WithTimeout(writeCtx, evalWriteTimeout)
		defer cancel()
		if _, err := e.evals.Create(writeCtx, eval); err != nil {
			slog.ErrorContext(writeCtx, "failed to log oracle eval", "error", err, "eval_id", eval.ID)
		}
	}()
}

// Wait blocks until eval records still being written have finished.
func (e *Extractor) Wait() {
	e.pending.Wait()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func intPtr(i int) *int { return &i }
