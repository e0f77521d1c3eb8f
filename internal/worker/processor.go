package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"sawmill.app/ledger/common/logger"
	"sawmill.app/ledger/internal/metrics"
	"sawmill.app/ledger/internal/model"
	"sawmill.app/ledger/internal/parser"
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/service"
	"sawmill.app/ledger/internal/store"
	"sawmill.app/ledger/internal/telegram"
)

// SourceHelp marks intake messages answered with the usage text.
const SourceHelp = "help"

const HelpText = "Sawmill ledger: send natural text and the system will record it.\n" +
	"Examples:\n" +
	"- Got 50 logs from Kumar today\n" +
	"- We cut 200 planks size 2x4 from batch 12\n" +
	"- Dispatch order #23 using lorry TN09AB1234\n" +
	"Or use commands:\n" +
	"- stockin qty=50 supplier=Kumar volume=120cft\n" +
	"- produce batch=12 size=2x4x8ft output=200\n" +
	"- order customer=Ravi qty=100 size=2x4x8ft\n" +
	"- dispatch order=23 lorry=TN09AB1234\n" +
	"- payment order=23 amount=15000 method=upi\n" +
	"- report weekly"

// DefaultHint precedes the daily report when a message could not be understood.
const DefaultHint = "🤔 I could not understand that, so here is today's report.\n" +
	"Send \"help\" for examples, or use a command such as: stockin qty=50 supplier=Kumar"

var helpCommands = map[string]bool{
	"/start": true,
	"help":   true,
	"/help":  true,
}

func isHelp(text string) bool {
	return helpCommands[strings.ToLower(strings.TrimSpace(text))]
}

// Processor resolves an intake message, applies the event to the ledger and replies in chat.
type Processor struct {
	intake     store.IntakeStore
	txRunner   service.TxRunner
	resolver   Resolver
	dispatcher service.Dispatcher
	sender     telegram.Sender
}

// NewProcessor wires the processor. A nil sender records events without replying.
func NewProcessor(intake store.IntakeStore, txRunner service.TxRunner, resolver Resolver, dispatcher service.Dispatcher, sender telegram.Sender) *Processor {
	return &Processor{
		intake:     intake,
		txRunner:   txRunner,
		resolver:   resolver,
		dispatcher: dispatcher,
		sender:     sender,
	}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ledger.worker.processor"})

	intake, err := p.intake.GetByID(ctx, msg.IntakeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "intake message not found, skipping")
			return nil
		}
		return fmt.Errorf("loading intake message: %w", err)
	}
	if intake.Status == model.IntakeStatusProcessed || intake.Status == model.IntakeStatusFailed {
		slog.InfoContext(ctx, "intake message already handled, skipping", "status", intake.Status)
		return nil
	}

	slog.DebugContext(ctx, "intake message loaded", "text", logger.Truncate(intake.Text, 200))

	// The oracle may take seconds; resolve before taking the row lock.
	var resolution *parser.Resolution
	if !isHelp(intake.Text) {
		sc := logger.StartSpan(ctx, "processor.resolve")
		r := p.resolver.Resolve(sc.Context(), intake.Text)
		sc.Span().SetAttributes(
			attribute.String("ledger.source", string(r.Source)),
			attribute.String("ledger.event_type", string(r.Event.EventType())),
		)
		if r.OracleErr != nil {
			sc.RecordError(r.OracleErr)
		}
		sc.End()

		resolution = &r
		ctx = p.recordResolution(ctx, r)
	}

	var (
		result  model.IntakeResult
		claimed bool
	)
	err = p.txRunner.WithTx(ctx, func(sp service.StoreProvider) error {
		if _, err := sp.Intake().Claim(ctx, intake.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("claiming intake message: %w", err)
		}

		res, err := p.apply(ctx, sp, resolution)
		if err != nil {
			return err
		}
		if err := sp.Intake().MarkProcessed(ctx, intake.ID, res); err != nil {
			return fmt.Errorf("marking intake processed: %w", err)
		}
		result = res
		claimed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !claimed {
		slog.InfoContext(ctx, "intake message not claimable, skipping")
		return nil
	}

	slog.InfoContext(ctx, "intake message processed", "source", result.Source)
	p.reply(ctx, intake, result.ReplyText)
	return nil
}

func (p *Processor) recordResolution(ctx context.Context, r parser.Resolution) context.Context {
	eventType := string(r.Event.EventType())
	source := string(r.Source)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventType: &eventType,
		Source:    &source,
	})

	metrics.EventsResolved.WithLabelValues(source, eventType).Inc()

	attrs := []any{}
	if r.GrammarMiss != nil {
		attrs = append(attrs, "grammar_miss", r.GrammarMiss.Error())
	}
	if r.IsDefault() {
		metrics.OracleFallbacks.WithLabelValues(string(r.FallbackReason)).Inc()
		attrs = append(attrs, "fallback_reason", r.FallbackReason)
		if r.OracleErr != nil {
			attrs = append(attrs, "oracle_error", r.OracleErr.Error())
		}
	}
	slog.InfoContext(ctx, "message resolved", attrs...)
	return ctx
}

// apply writes the resolved event and builds the record kept on the intake row. A nil
// resolution means the message was a help command.
func (p *Processor) apply(ctx context.Context, sp service.StoreProvider, resolution *parser.Resolution) (model.IntakeResult, error) {
	if resolution == nil {
		return model.IntakeResult{Source: SourceHelp, ReplyText: HelpText}, nil
	}

	ev := resolution.Event
	eventType := string(ev.EventType())
	eventJSON, err := json.Marshal(ev)
	if err != nil {
		return model.IntakeResult{}, fmt.Errorf("encoding event: %w", err)
	}
	result := model.IntakeResult{
		EventType: eventType,
		EventJSON: eventJSON,
		Source:    string(resolution.Source),
	}

	applied, err := p.dispatcher.Apply(ctx, sp, ev)
	switch {
	case errors.Is(err, service.ErrReferenceNotFound):
		metrics.EventsApplied.WithLabelValues(eventType, "rejected").Inc()
		slog.WarnContext(ctx, "event rejected", "error", err)
		result.ReplyText = fmt.Sprintf("⚠️ Not recorded: %v. Check the number and send it again.", err)
		return result, nil
	case err != nil:
		metrics.EventsApplied.WithLabelValues(eventType, "error").Inc()
		return model.IntakeResult{}, fmt.Errorf("applying %s: %w", eventType, err)
	}

	metrics.EventsApplied.WithLabelValues(eventType, "ok").Inc()
	result.ReplyText = applied.Reply
	if resolution.IsDefault() {
		result.ReplyText = DefaultHint + "\n\n" + applied.Reply
	}
	return result, nil
}

// reply is best-effort: the ledger write is already committed.
func (p *Processor) reply(ctx context.Context, intake *model.IntakeMessage, text string) {
	if p.sender == nil || text == "" {
		return
	}
	if _, err := p.sender.SendMessage(ctx, intake.ChatID, text, intake.MessageID); err != nil {
		metrics.RepliesSent.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "failed to send reply", "error", err)
		return
	}
	metrics.RepliesSent.WithLabelValues("ok").Inc()
}
