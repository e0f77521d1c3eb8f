package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"sawmill.app/ledger/common/llm"
	"sawmill.app/ledger/internal/domain"
)

// variantSchemas pairs each event tag with the JSON schema of its fields.
var variantSchemas = []struct {
	Type   domain.EventType
	Sample any
}{
	{domain.EventTypeStockIn, domain.StockIn{}},
	{domain.EventTypeProduction, domain.Production{}},
	{domain.EventTypeOrder, domain.Order{}},
	{domain.EventTypeDelivery, domain.Delivery{}},
	{domain.EventTypePayment, domain.Payment{}},
	{domain.EventTypeReport, domain.Report{}},
}

var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(systemPromptHeader)
	sb.WriteString("\n## Event types\n\n")
	for _, v := range variantSchemas {
		schema, err := json.Marshal(llm.GenerateSchemaFrom(v.Sample))
		if err != nil {
			panic(fmt.Sprintf("rendering %s schema: %v", v.Type, err))
		}
		fmt.Fprintf(&sb, "### %s\n%s\n\n", v.Type, schema)
	}
	sb.WriteString(systemPromptRules)
	return sb.String()
}

// fewShot anchors the output shape. Each answer is one bare JSON object.
var fewShot = []struct {
	Text   string
	Answer string
}{
	{
		Text:   "Got 50 logs from Kumar today",
		Answer: `{"type":"STOCK_IN","supplier_name":"Kumar","qty_logs":50,"date_str":"today"}`,
	},
	{
		Text:   "We cut 200 planks size 2x4 from batch 12",
		Answer: `{"type":"PRODUCTION","batch_id":12,"thickness_mm":50.8,"width_mm":101.6,"qty":200}`,
	},
	{
		Text:   "Dispatch order #23 using lorry TN09AB1234",
		Answer: `{"type":"DELIVERY","order_id":23,"lorry_number":"TN09AB1234"}`,
	},
	{
		Text:   "how is the weather",
		Answer: `{"type":"REPORT","kind":"daily"}`,
	},
}

func buildMessages(text string) []llm.Message {
	msgs := make([]llm.Message, 0, 2+2*len(fewShot))
	msgs = append(msgs, llm.SystemMessage(systemPrompt))
	for _, ex := range fewShot {
		msgs = append(msgs, llm.UserMessage("", ex.Text), llm.AssistantMessage(ex.Answer))
	}
	return append(msgs, llm.UserMessage("", text))
}

const systemPromptHeader = `You are a strict data extractor for a sawmill ledger.

Given one free-form message from the mill floor, output EXACTLY one JSON object describing one
of these event types: STOCK_IN, PRODUCTION, ORDER, DELIVERY, PAYMENT, REPORT.
The object must carry a "type" field with the tag and the fields listed for that tag below.
`

const systemPromptRules = `## Rules

- Output valid JSON only. No prose, no code fences.
- Convert every dimension to millimeters: 1 inch = 25.4 mm, 1 foot = 304.8 mm.
  Thickness and width without a unit are inches, length without a unit is feet.
- Keep the size exactly as written in size_label for orders.
- Quantities are whole numbers greater than zero. Amounts are greater than zero.
- Copy dates as written into date_str ("today", "12/06", "2024-06-12"). Omit when absent.
- Omit fields the message does not mention. Never invent ids.
- If unsure, return {"type":"REPORT","kind":"daily"}.`
