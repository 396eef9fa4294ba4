package fractal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTracePathAcrossParts(t *testing.T) {
	base := MustRecord(map[string]any{"server": map[string]any{"port": 80}})
	override := MustRecord(map[string]any{"server": map[string]any{"host": "example.com"}})
	local := MustRecord(map[string]any{"server": map[string]any{"port": 8080}})

	whole, err := Fold([]*Record{base, override, local})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}

	trace, err := TracePath(whole, "server.port")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !trace.Found || trace.Value != 8080 {
		t.Fatalf("unexpected folded value: %+v", trace)
	}
	want := []PartTrace{
		{Index: 0, Type: "int", Value: 80, Found: true},
		{Index: 1},
		{Index: 2, Type: "int", Value: 8080, Found: true},
	}
	if diff := cmp.Diff(want, trace.Parts); diff != "" {
		t.Fatalf("unexpected parts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, trace.Contributors()); diff != "" {
		t.Fatalf("unexpected contributors (-want +got):\n%s", diff)
	}
}

func TestTracePathOnPlainRecord(t *testing.T) {
	r := NewRecord().Set("name", String("svc"))

	trace, err := TracePath(r, "name")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(trace.Parts) != 1 || !trace.Parts[0].Found {
		t.Fatalf("expected record to be its own part: %+v", trace)
	}

	missing, err := TracePath(r, "name.first")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if missing.Found || missing.Parts[0].Found {
		t.Fatalf("cannot descend into a scalar: %+v", missing)
	}
}

func TestTracePathEmpty(t *testing.T) {
	if _, err := TracePath(NewRecord(), " "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := Trace{
		Path:  "k",
		Value: []any{"a", "b"},
		Found: true,
		Parts: []PartTrace{{Index: 0, Type: "sequence", Value: []any{"a"}, Found: true}},
	}
	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if diff := cmp.Diff(trace, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	r := MustRecord(map[string]any{"a": map[string]any{"b": map[string]any{"c": "deep"}}})

	value, ok := Lookup(r, "a.b.c")
	if !ok || value.ScalarValue() != "deep" {
		t.Fatalf("unexpected lookup result %v %v", value.Interface(), ok)
	}
	if _, ok := Lookup(r, "a.x.c"); ok {
		t.Fatalf("expected missing path")
	}
	if _, ok := Lookup(r, ""); ok {
		t.Fatalf("expected empty path to miss")
	}
}
