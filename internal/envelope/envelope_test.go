package envelope

import (
	"encoding/json"
	"testing"
)

func TestNewDefaultsMessageAndData(t *testing.T) {
	env := New(CommandExecutionFailed, nil, "")
	if env.Message != "command execution failed" {
		t.Fatalf("message %q", env.Message)
	}
	if env.Data == nil || len(env.Data) != 0 {
		t.Fatalf("data must be an empty list, got %v", env.Data)
	}

	env = New(Success, nil, "custom")
	if env.Message != "custom" {
		t.Fatalf("custom message lost: %q", env.Message)
	}
}

func TestDefaultMessages(t *testing.T) {
	cases := map[Code]string{
		Success:             "success",
		CommandNotFound:     "command not found or permission denied",
		ParseFailed:         "failed to parse response",
		UnexpectedException: "unexpected exception occurred",
		DeviceNotAvailable:  "device not available or no matching hardware found",
		Code(42):            "unknown error",
	}
	for code, want := range cases {
		if got := code.DefaultMessage(); got != want {
			t.Fatalf("code %d: got %q want %q", code, got, want)
		}
	}
}

func TestSchemaDerivation(t *testing.T) {
	rec := NewRecord().Set("a", 1).Set("b", "x")
	env := New(Success, []*Record{rec}, "")
	body, err := env.Encode(false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var wire struct {
		OutputSchema struct {
			Type       string `json:"type"`
			Properties struct {
				Data struct {
					Items struct {
						Properties map[string]struct {
							Type string `json:"type"`
						} `json:"properties"`
						Required             []string `json:"required"`
						AdditionalProperties bool     `json:"additionalProperties"`
					} `json:"items"`
				} `json:"data"`
			} `json:"properties"`
			AdditionalProperties bool   `json:"additionalProperties"`
			Schema               string `json:"$schema"`
		} `json:"outputSchema"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal wire: %v", err)
	}
	schema := wire.OutputSchema
	if schema.AdditionalProperties {
		t.Fatalf("top-level object must be closed")
	}
	if schema.Schema != "http://json-schema.org/draft-07/schema#" {
		t.Fatalf("wrong $schema: %q", schema.Schema)
	}
	items := schema.Properties.Data.Items
	if !items.AdditionalProperties {
		t.Fatalf("record items must stay open")
	}
	if items.Properties["a"].Type != "number" {
		t.Fatalf("field a: got %q want number", items.Properties["a"].Type)
	}
	if items.Properties["b"].Type != "string" {
		t.Fatalf("field b: got %q want string", items.Properties["b"].Type)
	}
	if len(items.Required) != 2 {
		t.Fatalf("required: %v", items.Required)
	}
}

func TestSchemaWithEmptyData(t *testing.T) {
	body, err := New(DeviceNotAvailable, nil, "").Encode(false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var sc struct {
		Response struct {
			Code int               `json:"code"`
			Data []json.RawMessage `json:"data"`
		} `json:"response"`
	}
	if err := json.Unmarshal(wire["structuredContent"], &sc); err != nil {
		t.Fatalf("unmarshal content: %v", err)
	}
	if sc.Response.Code != 1005 {
		t.Fatalf("code %d", sc.Response.Code)
	}
	if sc.Response.Data == nil {
		t.Fatalf("data serialized as null")
	}
}

func TestRoundTrip(t *testing.T) {
	rec1 := NewRecord().Set("interface", "ib9b-0").Set("arpIgnore", "2").Set("arpAccept", "")
	rec2 := NewRecord().Set("interface", "ib9b-1").Set("arpIgnore", "0").Set("arpAccept", "1")
	orig := New(Success, []*Record{rec1, rec2}, "")

	body, err := orig.Encode(true) // pretty printing must not affect content
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Code != orig.Code || back.Message != orig.Message {
		t.Fatalf("code/message changed: %v %q", back.Code, back.Message)
	}
	if len(back.Data) != 2 {
		t.Fatalf("record count %d", len(back.Data))
	}
	for i, rec := range back.Data {
		want := orig.Data[i]
		keys := rec.Keys()
		wantKeys := want.Keys()
		if len(keys) != len(wantKeys) {
			t.Fatalf("record %d keys %v", i, keys)
		}
		for j := range keys {
			if keys[j] != wantKeys[j] {
				t.Fatalf("record %d key order: %v vs %v", i, keys, wantKeys)
			}
			got, _ := rec.Get(keys[j])
			orig, _ := want.Get(keys[j])
			if got != orig {
				t.Fatalf("record %d field %s: %v vs %v", i, keys[j], got, orig)
			}
		}
	}
}
