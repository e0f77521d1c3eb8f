package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sawmill.app/ledger/internal/domain"
)

// Oracle is the opaque semantic extractor consulted when the grammar gives up.
// It returns the raw model output, which may wrap the JSON object in prose.
type Oracle interface {
	Extract(ctx context.Context, text string) (string, error)
}

// FallbackReason says why the fallback produced the default REPORT event.
type FallbackReason string

const (
	ReasonDisabled     FallbackReason = "oracle_disabled"
	ReasonUnavailable  FallbackReason = "oracle_unavailable"
	ReasonTimeout      FallbackReason = "oracle_timeout"
	ReasonMalformed    FallbackReason = "malformed_response"
	ReasonUnknownType  FallbackReason = "unknown_type"
	ReasonInvalidEvent FallbackReason = "invalid_event"
	ReasonPanic        FallbackReason = "oracle_panic"
)

// OracleError is the internal failure signal of the fallback. It is always paired with the
// default event and never escapes Resolve.
type OracleError struct {
	Reason FallbackReason
	Err    error
}

func (e *OracleError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

const MaxOracleTimeout = 15 * time.Second

type FallbackConfig struct {
	// Timeout bounds a single oracle call. Zero or anything above MaxOracleTimeout is clamped.
	Timeout time.Duration
}

// Fallback adapts the oracle into the six-event shape and degrades to REPORT/daily on any failure.
type Fallback struct {
	oracle  Oracle
	timeout time.Duration
}

// NewFallback builds the adapter. A nil oracle means no credentials are configured: every call
// returns the default without touching the network.
func NewFallback(oracle Oracle, cfg FallbackConfig) *Fallback {
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > MaxOracleTimeout {
		timeout = MaxOracleTimeout
	}
	return &Fallback{oracle: oracle, timeout: timeout}
}

func (f *Fallback) Enabled() bool {
	return f != nil && f.oracle != nil
}

// Parse always returns a valid event. When it is the default, the error is an *OracleError
// saying why.
func (f *Fallback) Parse(ctx context.Context, text string) (ev domain.Event, err error) {
	if !f.Enabled() {
		return domain.DefaultReport(), &OracleError{Reason: ReasonDisabled}
	}

	defer func() {
		if r := recover(); r != nil {
			ev = domain.DefaultReport()
			err = &OracleError{Reason: ReasonPanic, Err: fmt.Errorf("%v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	raw, callErr := f.oracle.Extract(ctx, text)
	if callErr != nil {
		reason := ReasonUnavailable
		if errors.Is(callErr, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return domain.DefaultReport(), &OracleError{Reason: reason, Err: callErr}
	}

	ev, oerr := interpret(raw)
	if oerr != nil {
		return domain.DefaultReport(), oerr
	}
	return ev, nil
}

// interpret turns raw oracle output into a validated event.
func interpret(raw string) (domain.Event, *OracleError) {
	obj, err := extractObject(raw)
	if err != nil {
		return nil, &OracleError{Reason: ReasonMalformed, Err: err}
	}

	t, ok := domain.ParseEventType(str(obj, "type"))
	if !ok {
		return nil, &OracleError{Reason: ReasonUnknownType, Err: fmt.Errorf("type %q", str(obj, "type"))}
	}

	ev, err := repair(t, obj)
	if err == nil {
		err = ev.Validate()
	}
	if err != nil {
		return nil, &OracleError{Reason: ReasonInvalidEvent, Err: err}
	}
	return ev, nil
}

var greedyObject = regexp.MustCompile(`(?s)\{.*\}`)

// extractObject finds the JSON object in the response: the whole text, then the greedy
// outermost {...} span, then the first balanced span.
func extractObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if obj, ok := decodeObject(raw); ok {
		return unwrapEnvelope(obj), nil
	}
	if span := greedyObject.FindString(raw); span != "" {
		if obj, ok := decodeObject(span); ok {
			return unwrapEnvelope(obj), nil
		}
	}
	if span, ok := firstBalanced(raw); ok {
		if obj, ok := decodeObject(span); ok {
			return unwrapEnvelope(obj), nil
		}
	}
	return nil, errors.New("no JSON object in response")
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// unwrapEnvelope accepts {"event": {...}} style answers with a single nested object.
func unwrapEnvelope(obj map[string]any) map[string]any {
	if _, ok := obj["type"]; ok || len(obj) != 1 {
		return obj
	}
	for _, v := range obj {
		if inner, ok := v.(map[string]any); ok {
			if _, ok := inner["type"]; ok {
				return inner
			}
		}
	}
	return obj
}

func firstBalanced(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func repair(t domain.EventType, obj map[string]any) (domain.Event, error) {
	switch t {
	case domain.EventTypeStockIn:
		qty, err := intField(obj, "qty_logs", "qty", "logs")
		if err != nil {
			return nil, err
		}
		volume, err := optFloatField(obj, "volume_cft", "volume")
		if err != nil {
			return nil, err
		}
		supplier := str(obj, "supplier_name", "supplier")
		if supplier == "" {
			supplier = domain.DefaultSupplierName
		}
		return domain.StockIn{
			SupplierName: supplier,
			QtyLogs:      int(qty),
			VolumeCFT:    volume,
			DateStr:      optStr(obj, "date_str", "date"),
		}, nil

	case domain.EventTypeProduction:
		batch, err := intField(obj, "batch_id", "batch")
		if err != nil {
			return nil, err
		}
		qty, err := intField(obj, "qty", "output")
		if err != nil {
			return nil, err
		}
		dims, err := dimensionFields(obj)
		if err != nil {
			return nil, err
		}
		p := domain.Production{
			BatchID: batch,
			Qty:     int(qty),
			DateStr: optStr(obj, "date_str", "date"),
		}
		if dims.thickness != nil {
			p.ThicknessMM = *dims.thickness
		}
		if dims.width != nil {
			p.WidthMM = *dims.width
		}
		p.LengthMM = dims.length
		return p, nil

	case domain.EventTypeOrder:
		qty, err := intField(obj, "qty")
		if err != nil {
			return nil, err
		}
		dims, err := dimensionFields(obj)
		if err != nil {
			return nil, err
		}
		return domain.Order{
			CustomerName: str(obj, "customer_name", "customer"),
			Qty:          int(qty),
			SizeLabel:    optStr(obj, "size_label", "size"),
			ThicknessMM:  dims.thickness,
			WidthMM:      dims.width,
			LengthMM:     dims.length,
			DateStr:      optStr(obj, "date_str", "date"),
		}, nil

	case domain.EventTypeDelivery:
		orderID, err := intField(obj, "order_id", "order")
		if err != nil {
			return nil, err
		}
		return domain.Delivery{
			OrderID:     orderID,
			LorryNumber: str(obj, "lorry_number", "lorry"),
			DateStr:     optStr(obj, "date_str", "date"),
		}, nil

	case domain.EventTypePayment:
		orderID, err := intField(obj, "order_id", "order")
		if err != nil {
			return nil, err
		}
		amount, err := optFloatField(obj, "amount")
		if err != nil {
			return nil, err
		}
		pay := domain.Payment{
			OrderID: orderID,
			Method:  optStr(obj, "method"),
			DateStr: optStr(obj, "date_str", "date"),
		}
		if amount != nil {
			pay.Amount = *amount
		}
		return pay, nil

	default:
		kind := str(obj, "kind")
		if kind == "" {
			kind = domain.DefaultReportKind
		}
		return domain.Report{Kind: kind}, nil
	}
}

type sizeFields struct {
	thickness, width, length *float64
}

// dimensionFields reads *_mm fields, falling back to a size label the oracle left unparsed.
func dimensionFields(obj map[string]any) (sizeFields, error) {
	var d sizeFields
	var err error
	if d.thickness, err = optFloatField(obj, "thickness_mm"); err != nil {
		return d, err
	}
	if d.width, err = optFloatField(obj, "width_mm"); err != nil {
		return d, err
	}
	if d.length, err = optFloatField(obj, "length_mm"); err != nil {
		return d, err
	}
	if d.thickness == nil && d.width == nil {
		if label := str(obj, "size_label", "size"); label != "" {
			if parsed, perr := ParseDimensions(label); perr == nil {
				d.thickness = &parsed.ThicknessMM
				d.width = &parsed.WidthMM
				if d.length == nil {
					d.length = parsed.LengthMM
				}
			}
		}
	}
	return d, nil
}

// str returns the first non-empty string-ish value among keys.
func str(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func optStr(obj map[string]any, keys ...string) *string {
	if s := str(obj, keys...); s != "" {
		return &s
	}
	return nil
}

func optFloatField(obj map[string]any, keys ...string) (*float64, error) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		return &f, nil
	}
	return nil, nil
}

// Largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// intField returns 0 when no key is present, letting validation decide.
func intField(obj map[string]any, keys ...string) (int64, error) {
	f, err := optFloatField(obj, keys...)
	if err != nil || f == nil {
		return 0, err
	}
	if *f != math.Trunc(*f) || math.Abs(*f) > maxExactInt {
		return 0, fmt.Errorf("%v is not a whole number", *f)
	}
	return int64(*f), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(n)), "cft"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
