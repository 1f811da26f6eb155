package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/hostprobe-dev/hostprobe/pkg/api"
)

// Envelope is the canonical result of every diagnostic call. Data is never
// nil: a non-success code always carries an empty list, never a partial one.
type Envelope struct {
	Code    Code
	Message string
	Data    []*Record
}

// New builds an envelope. An empty message is replaced by the canonical
// default for the code; nil data becomes an empty list.
func New(code Code, data []*Record, message string) *Envelope {
	if data == nil {
		data = []*Record{}
	}
	if message == "" {
		message = code.DefaultMessage()
	}
	return &Envelope{Code: code, Message: message, Data: data}
}

// Failure is shorthand for an error envelope with empty data.
func Failure(code Code, message string) *Envelope {
	return New(code, nil, message)
}

// Encode serializes the envelope into the fixed wire shape. Pretty printing
// is a presentation concern only, toggled by the debug flag upstream.
func (e *Envelope) Encode(pretty bool) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(e.Data))
	for _, rec := range e.Data {
		b, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		raw = append(raw, b)
	}
	schema, err := json.Marshal(deriveSchema(e.Data))
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	wire := api.Wire{
		StructuredContent: api.StructuredContent{
			Response: api.Response{Code: int(e.Code), Message: e.Message, Data: raw},
		},
		OutputSchema: schema,
	}
	if pretty {
		return json.MarshalIndent(wire, "", "  ")
	}
	return json.Marshal(wire)
}

// Decode parses a serialized envelope back into code, message and records.
// Field order inside each record is preserved.
func Decode(data []byte) (*Envelope, error) {
	var wire api.Wire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	resp := wire.StructuredContent.Response
	records := make([]*Record, 0, len(resp.Data))
	for i, raw := range resp.Data {
		rec := NewRecord()
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return &Envelope{Code: Code(resp.Code), Message: resp.Message, Data: records}, nil
}

type fieldSchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type itemSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]fieldSchema `json:"properties"`
	Required             []string               `json:"required"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

type dataSchema struct {
	Type  string     `json:"type"`
	Items itemSchema `json:"items"`
}

type outputSchema struct {
	Type                 string         `json:"type"`
	Properties           map[string]any `json:"properties"`
	Required             []string       `json:"required"`
	AdditionalProperties bool           `json:"additionalProperties"`
	Description          string         `json:"description"`
	Schema               string         `json:"$schema"`
}

// deriveSchema infers the output schema from the first record. With no data
// the item shape stays open. The top-level object is closed; record items
// stay open to tolerate field drift across entities within one response.
func deriveSchema(data []*Record) outputSchema {
	items := itemSchema{
		Type:                 "object",
		Properties:           map[string]fieldSchema{},
		Required:             []string{},
		AdditionalProperties: true,
	}
	if len(data) > 0 {
		sample := data[0]
		for _, key := range sample.Keys() {
			v, _ := sample.Get(key)
			items.Properties[key] = fieldSchema{Type: jsonType(v)}
			items.Required = append(items.Required, key)
		}
	}
	return outputSchema{
		Type: "object",
		Properties: map[string]any{
			"code":    fieldSchema{Type: "number", Description: "response code, 0 means success"},
			"message": fieldSchema{Type: "string", Description: "human readable result message"},
			"data":    dataSchema{Type: "array", Items: items},
		},
		Required:             []string{"code", "message", "data"},
		AdditionalProperties: false,
		Description:          "diagnostic tool response body",
		Schema:               "http://json-schema.org/draft-07/schema#",
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return "number"
	default:
		return "string"
	}
}
