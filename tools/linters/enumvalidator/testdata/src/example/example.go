package example

type EventType string

const (
	EventTypeStockIn EventType = "STOCK_IN"
	EventTypeReport  EventType = "REPORT"
)

type IntakeStatus string

const (
	IntakeStatusPending   IntakeStatus = "pending"
	IntakeStatusProcessed IntakeStatus = "processed"
)

// Label has no constants, so it is free text.
type Label string

type IntakeMessage struct {
	Status    IntakeStatus
	EventType EventType
	Note      Label
	Text      string
}

func bad() {
	m := &IntakeMessage{}
	m.Status = "procesed"   // want "enum field Status assigned string literal"
	m.EventType = "STOCKIN" // want "enum field EventType assigned string literal"

	_ = IntakeMessage{Status: "pending"} // want "enum field Status assigned string literal"
}

func good() {
	m := &IntakeMessage{}
	m.Status = IntakeStatusProcessed
	m.Note = "checked by hand"
	m.Text = "got 50 logs"

	kind := EventTypeReport
	m.EventType = kind

	_ = IntakeMessage{Status: IntakeStatusPending, Note: "free"}
	_ = EventTypeStockIn
}
