package envelope

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordOrderPreserved(t *testing.T) {
	rec := NewRecord().Set("z", "1").Set("a", "2").Set("m", "3")
	keys := rec.Keys()
	if strings.Join(keys, ",") != "z,a,m" {
		t.Fatalf("keys %v", keys)
	}

	// Overwriting keeps the original position.
	rec.Set("a", "9")
	if strings.Join(rec.Keys(), ",") != "z,a,m" {
		t.Fatalf("overwrite moved key: %v", rec.Keys())
	}
	if v, _ := rec.Get("a"); v != "9" {
		t.Fatalf("overwrite lost value: %v", v)
	}
}

func TestRecordJSONOrder(t *testing.T) {
	rec := NewRecord().Set("interface", "ib9b-0").Set("busInfo", "0000:9b:00.0").Set("lnkSta", "Speed 16GT/s, Width x16")
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"interface":"ib9b-0","busInfo":"0000:9b:00.0","lnkSta":"Speed 16GT/s, Width x16"}`
	if string(b) != want {
		t.Fatalf("got %s", b)
	}

	var back Record
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if strings.Join(back.Keys(), ",") != "interface,busInfo,lnkSta" {
		t.Fatalf("order lost: %v", back.Keys())
	}
}

func TestRecordStringHelper(t *testing.T) {
	rec := NewRecord().Set("s", "x").Set("n", 3)
	if rec.String("s") != "x" {
		t.Fatalf("string field")
	}
	if rec.String("n") != "" {
		t.Fatalf("non-string must yield empty")
	}
	if rec.String("missing") != "" {
		t.Fatalf("missing must yield empty")
	}
}
