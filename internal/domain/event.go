package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// EventType is the discriminator tag carried by every ledger event.
type EventType string

const (
	EventTypeStockIn    EventType = "STOCK_IN"
	EventTypeProduction EventType = "PRODUCTION"
	EventTypeOrder      EventType = "ORDER"
	EventTypeDelivery   EventType = "DELIVERY"
	EventTypePayment    EventType = "PAYMENT"
	EventTypeReport     EventType = "REPORT"
)

const (
	DefaultSupplierName = "Unknown"
	DefaultReportKind   = "daily"
)

// MaxQty is the largest piece or log count the ledger stores.
const MaxQty = math.MaxInt32

// EventTypes lists every recognized tag.
var EventTypes = []EventType{
	EventTypeStockIn,
	EventTypeProduction,
	EventTypeOrder,
	EventTypeDelivery,
	EventTypePayment,
	EventTypeReport,
}

// ParseEventType normalizes loosely spelled tags ("stock-in", "Stock In", "stockin").
func ParseEventType(s string) (EventType, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	if norm == "STOCKIN" {
		norm = string(EventTypeStockIn)
	}
	for _, t := range EventTypes {
		if string(t) == norm {
			return t, true
		}
	}
	return "", false
}

// Event is one of the six structured records a chat message resolves to.
// Implementations are plain values and are never mutated after construction.
type Event interface {
	EventType() EventType
	Validate() error
}

// ValidationError reports a field that breaks an event rule.
type ValidationError struct {
	Event EventType
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Event, e.Field, e.Rule)
}

type StockIn struct {
	SupplierName string   `json:"supplier_name" jsonschema_description:"Supplier the logs came from"`
	QtyLogs      int      `json:"qty_logs" jsonschema_description:"Number of logs received, greater than zero"`
	VolumeCFT    *float64 `json:"volume_cft,omitempty" jsonschema_description:"Volume in cubic feet"`
	DateStr      *string  `json:"date_str,omitempty" jsonschema_description:"Date as written by the sender"`
}

func (StockIn) EventType() EventType { return EventTypeStockIn }

func (e StockIn) Validate() error {
	if e.QtyLogs <= 0 {
		return invalid(EventTypeStockIn, "qty_logs", "must be greater than 0")
	}
	if e.QtyLogs > MaxQty {
		return invalid(EventTypeStockIn, "qty_logs", tooLarge)
	}
	if e.VolumeCFT != nil && (!finite(*e.VolumeCFT) || *e.VolumeCFT < 0) {
		return invalid(EventTypeStockIn, "volume_cft", "must be 0 or more")
	}
	return nil
}

func (e StockIn) MarshalJSON() ([]byte, error) {
	type alias StockIn
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypeStockIn, alias(e)})
}

type Production struct {
	BatchID     int64    `json:"batch_id" jsonschema_description:"Stock batch the wood was cut from"`
	ThicknessMM float64  `json:"thickness_mm" jsonschema_description:"Thickness in millimeters"`
	WidthMM     float64  `json:"width_mm" jsonschema_description:"Width in millimeters"`
	LengthMM    *float64 `json:"length_mm,omitempty" jsonschema_description:"Length in millimeters"`
	Qty         int      `json:"qty" jsonschema_description:"Pieces produced, greater than zero"`
	DateStr     *string  `json:"date_str,omitempty"`
}

func (Production) EventType() EventType { return EventTypeProduction }

func (e Production) Validate() error {
	if !positive(e.ThicknessMM) {
		return invalid(EventTypeProduction, "thickness_mm", "must be greater than 0")
	}
	if !positive(e.WidthMM) {
		return invalid(EventTypeProduction, "width_mm", "must be greater than 0")
	}
	if e.LengthMM != nil && !positive(*e.LengthMM) {
		return invalid(EventTypeProduction, "length_mm", "must be greater than 0")
	}
	if e.Qty <= 0 {
		return invalid(EventTypeProduction, "qty", "must be greater than 0")
	}
	if e.Qty > MaxQty {
		return invalid(EventTypeProduction, "qty", tooLarge)
	}
	return nil
}

func (e Production) MarshalJSON() ([]byte, error) {
	type alias Production
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypeProduction, alias(e)})
}

type Order struct {
	CustomerName string   `json:"customer_name" jsonschema_description:"Customer placing the order"`
	Qty          int      `json:"qty" jsonschema_description:"Pieces ordered, greater than zero"`
	SizeLabel    *string  `json:"size_label,omitempty" jsonschema_description:"Size as written, e.g. 2x4x8ft"`
	ThicknessMM  *float64 `json:"thickness_mm,omitempty"`
	WidthMM      *float64 `json:"width_mm,omitempty"`
	LengthMM     *float64 `json:"length_mm,omitempty"`
	DateStr      *string  `json:"date_str,omitempty"`
}

func (Order) EventType() EventType { return EventTypeOrder }

func (e Order) Validate() error {
	if e.Qty <= 0 {
		return invalid(EventTypeOrder, "qty", "must be greater than 0")
	}
	if e.Qty > MaxQty {
		return invalid(EventTypeOrder, "qty", tooLarge)
	}
	for field, v := range map[string]*float64{
		"thickness_mm": e.ThicknessMM,
		"width_mm":     e.WidthMM,
		"length_mm":    e.LengthMM,
	} {
		if v != nil && !positive(*v) {
			return invalid(EventTypeOrder, field, "must be greater than 0")
		}
	}
	return nil
}

func (e Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypeOrder, alias(e)})
}

type Delivery struct {
	OrderID     int64   `json:"order_id" jsonschema_description:"Order being dispatched"`
	LorryNumber string  `json:"lorry_number" jsonschema_description:"Vehicle registration"`
	DateStr     *string `json:"date_str,omitempty"`
}

func (Delivery) EventType() EventType { return EventTypeDelivery }

func (e Delivery) Validate() error { return nil }

func (e Delivery) MarshalJSON() ([]byte, error) {
	type alias Delivery
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypeDelivery, alias(e)})
}

type Payment struct {
	OrderID int64   `json:"order_id" jsonschema_description:"Order being paid for"`
	Amount  float64 `json:"amount" jsonschema_description:"Amount received, greater than zero"`
	Method  *string `json:"method,omitempty" jsonschema_description:"cash, upi, bank, cheque..."`
	DateStr *string `json:"date_str,omitempty"`
}

func (Payment) EventType() EventType { return EventTypePayment }

func (e Payment) Validate() error {
	if !positive(e.Amount) {
		return invalid(EventTypePayment, "amount", "must be greater than 0")
	}
	return nil
}

func (e Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypePayment, alias(e)})
}

type Report struct {
	Kind string `json:"kind" jsonschema_description:"daily, weekly or monthly"`
}

// DefaultReport is the universal safe fallback event.
func DefaultReport() Report {
	return Report{Kind: DefaultReportKind}
}

func (Report) EventType() EventType { return EventTypeReport }

func (e Report) Validate() error { return nil }

func (e Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{EventTypeReport, alias(e)})
}

// DecodeEvent decodes a tagged JSON event as produced by json.Marshal on any Event.
// The result is validated.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding event tag: %w", err)
	}
	t, ok := ParseEventType(head.Type)
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", head.Type)
	}

	var (
		ev  Event
		err error
	)
	switch t {
	case EventTypeStockIn:
		ev, err = decodeAs[StockIn](data)
	case EventTypeProduction:
		ev, err = decodeAs[Production](data)
	case EventTypeOrder:
		ev, err = decodeAs[Order](data)
	case EventTypeDelivery:
		ev, err = decodeAs[Delivery](data)
	case EventTypePayment:
		ev, err = decodeAs[Payment](data)
	case EventTypeReport:
		ev, err = decodeAs[Report](data)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", t, err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var tooLarge = fmt.Sprintf("must be at most %d", MaxQty)

func invalid(t EventType, field, rule string) error {
	return &ValidationError{Event: t, Field: field, Rule: rule}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
