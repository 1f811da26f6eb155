package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one flat diagnostic entry: an ordered mapping from field name to
// a string, number or boolean value. Field order is the order of the first
// Set call per key and survives a JSON round trip.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

// Set stores a field value. Setting an existing key overwrites the value
// without changing its position.
func (r *Record) Set(key string, value any) *Record {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns the field as a string, or "" when absent or not a string.
func (r *Record) String(key string) string {
	if s, ok := r.values[key].(string); ok {
		return s
	}
	return ""
}

// Keys returns field names in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}
	r.keys = nil
	r.values = map[string]any{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key := kt.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record field %s: %w", key, err)
		}
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				raw = f
			} else {
				raw = n.String()
			}
		}
		r.Set(key, raw)
	}
	_, err = dec.Token() // closing brace
	return err
}
