package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sawmill.app/ledger/internal/domain"
)

// NoMatchError signals that the grammar could not build an event from the text.
// It never leaves the package through Resolve; it exists so tests and logs can see why.
type NoMatchError struct {
	Head   string
	Reason error
}

func (e *NoMatchError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("no grammar match for head %q", e.Head)
	}
	return fmt.Sprintf("no grammar match for head %q: %v", e.Head, e.Reason)
}

func (e *NoMatchError) Unwrap() error { return e.Reason }

var (
	errEmptyInput   = errors.New("empty input")
	errUnknownHead  = errors.New("unrecognized command head")
	errBadVolume    = errors.New("volume must be <number>[cft]")
	errMissingField = errors.New("missing required field")
)

var volumeValue = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:cft)?$`)

type headParser func(kv map[string]string, tokens []string) (domain.Event, error)

var heads = map[string]headParser{
	"stockin":    parseStockIn,
	"stock-in":   parseStockIn,
	"produce":    parseProduction,
	"production": parseProduction,
	"order":      parseOrder,
	"deliver":    parseDelivery,
	"dispatch":   parseDelivery,
	"payment":    parsePayment,
	"report":     parseReport,
}

// TryParse runs the deterministic grammar. It reports false instead of an error for any
// input it cannot turn into a valid event.
func TryParse(text string) (domain.Event, bool) {
	ev, err := Match(text)
	if err != nil {
		return nil, false
	}
	return ev, true
}

// Match is TryParse with the reason for a miss, always a *NoMatchError.
func Match(text string) (domain.Event, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, &NoMatchError{Reason: errEmptyInput}
	}

	tokens := strings.Fields(raw)
	head := strings.ToLower(tokens[0])

	parse, ok := heads[head]
	if !ok {
		return nil, &NoMatchError{Head: head, Reason: errUnknownHead}
	}

	ev, err := parse(Extract(raw), tokens)
	if err != nil {
		return nil, &NoMatchError{Head: head, Reason: err}
	}
	if err := ev.Validate(); err != nil {
		return nil, &NoMatchError{Head: head, Reason: err}
	}
	return ev, nil
}

func parseStockIn(kv map[string]string, _ []string) (domain.Event, error) {
	var volume *float64
	if raw, ok := kv["volume"]; ok {
		m := volumeValue.FindStringSubmatch(strings.ToLower(raw))
		if m == nil {
			return nil, fmt.Errorf("%w: %q", errBadVolume, raw)
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadVolume, raw)
		}
		volume = &v
	}

	qty, err := intOr(firstOf(kv, "qty", "logs"), 0)
	if err != nil {
		return nil, err
	}

	supplier := firstOf(kv, "supplier", "from")
	if supplier == "" {
		supplier = domain.DefaultSupplierName
	}

	return domain.StockIn{
		SupplierName: supplier,
		QtyLogs:      qty,
		VolumeCFT:    volume,
		DateStr:      optional(kv, "date"),
	}, nil
}

func parseProduction(kv map[string]string, _ []string) (domain.Event, error) {
	var dims Dimensions
	if size, ok := kv["size"]; ok {
		var err error
		if dims, err = ParseDimensions(size); err != nil {
			return nil, err
		}
	} else {
		var err error
		if dims.ThicknessMM, err = measure(kv, "thickness", "t_unit"); err != nil {
			return nil, err
		}
		if dims.WidthMM, err = measure(kv, "width", "w_unit"); err != nil {
			return nil, err
		}
		if _, ok := kv["length"]; ok {
			l, err := measure(kv, "length", "l_unit")
			if err != nil {
				return nil, err
			}
			dims.LengthMM = &l
		}
	}

	batch, err := int64Or(kv["batch"], 0)
	if err != nil {
		return nil, err
	}
	qty, err := intOr(firstOf(kv, "output", "qty"), 0)
	if err != nil {
		return nil, err
	}

	return domain.Production{
		BatchID:     batch,
		ThicknessMM: dims.ThicknessMM,
		WidthMM:     dims.WidthMM,
		LengthMM:    dims.LengthMM,
		Qty:         qty,
		DateStr:     optional(kv, "date"),
	}, nil
}

func parseOrder(kv map[string]string, _ []string) (domain.Event, error) {
	qty, err := intOr(kv["qty"], 0)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		CustomerName: kv["customer"],
		Qty:          qty,
		DateStr:      optional(kv, "date"),
	}

	if size := firstOf(kv, "size", "item"); size != "" {
		order.SizeLabel = &size
		// Size is best effort on orders: an unparseable label is kept as text only.
		if dims, err := ParseDimensions(size); err == nil {
			order.ThicknessMM = &dims.ThicknessMM
			order.WidthMM = &dims.WidthMM
			order.LengthMM = dims.LengthMM
		}
	}
	return order, nil
}

func parseDelivery(kv map[string]string, _ []string) (domain.Event, error) {
	orderID, err := int64Or(kv["order"], 0)
	if err != nil {
		return nil, err
	}
	return domain.Delivery{
		OrderID:     orderID,
		LorryNumber: kv["lorry"],
		DateStr:     optional(kv, "date"),
	}, nil
}

func parsePayment(kv map[string]string, _ []string) (domain.Event, error) {
	orderID, err := int64Or(kv["order"], 0)
	if err != nil {
		return nil, err
	}
	amount, err := floatOr(kv["amount"], 0)
	if err != nil {
		return nil, err
	}
	return domain.Payment{
		OrderID: orderID,
		Amount:  amount,
		Method:  optional(kv, "method"),
		DateStr: optional(kv, "date"),
	}, nil
}

func parseReport(kv map[string]string, tokens []string) (domain.Event, error) {
	kind := kv["kind"]
	if kind == "" && len(tokens) > 1 {
		kind = tokens[1]
	}
	if kind == "" {
		kind = domain.DefaultReportKind
	}
	return domain.Report{Kind: kind}, nil
}

// measure reads a numeric key plus its optional unit key. Without a unit the value is
// taken as millimeters.
func measure(kv map[string]string, key, unitKey string) (float64, error) {
	raw, ok := kv[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingField, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return ToMillimeters(v, kv[unitKey])
}

func firstOf(kv map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := kv[k]; v != "" {
			return v
		}
	}
	return ""
}

func optional(kv map[string]string, key string) *string {
	if v, ok := kv[key]; ok && v != "" {
		return &v
	}
	return nil
}

func intOr(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing integer %q: %w", raw, err)
	}
	return v, nil
}

func int64Or(raw string, fallback int64) (int64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing integer %q: %w", raw, err)
	}
	return v, nil
}

func floatOr(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number %q: %w", raw, err)
	}
	return v, nil
}
