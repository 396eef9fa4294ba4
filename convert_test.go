package fractal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type listener struct {
	Host    string   `json:"host"`
	Port    int      `json:"port,omitempty"`
	Tags    []string `json:"tags"`
	Secret  string   `json:"-"`
	Enabled bool
	private string
}

func TestRecordOfStructKeepsDeclarationOrder(t *testing.T) {
	r, err := RecordOf(listener{Host: "localhost", Port: 8080, Tags: []string{"a"}, Secret: "x", private: "y"})
	if err != nil {
		t.Fatalf("record of: %v", err)
	}
	if diff := cmp.Diff([]string{"host", "port", "tags", "Enabled"}, r.Fields()); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
	tags, _ := r.Get("tags")
	if tags.Kind() != KindSequence || len(tags.Items()) != 1 {
		t.Fatalf("unexpected tags %v", tags.Interface())
	}
}

func TestRecordOfMapSortsKeys(t *testing.T) {
	r := MustRecord(map[string]any{"b": 1, "a": map[string]any{"y": nil, "x": []any{}}})

	if diff := cmp.Diff([]string{"a", "b"}, r.Fields()); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
	nested, _ := r.Get("a")
	if diff := cmp.Diff([]string{"x", "y"}, nested.Record().Fields()); diff != "" {
		t.Fatalf("unexpected nested fields (-want +got):\n%s", diff)
	}
	if y, _ := nested.Record().Get("y"); !y.IsNull() {
		t.Fatalf("nil should convert to null, got %v", y.Kind())
	}
}

func TestValueOfLeaves(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		in   any
		kind Kind
		typ  string
	}{
		"time":     {in: at, kind: KindScalar, typ: "time.Time"},
		"bytes":    {in: []byte("raw"), kind: KindScalar, typ: "[]uint8"},
		"pointer":  {in: &at, kind: KindScalar, typ: "time.Time"},
		"nil map":  {in: map[string]any(nil), kind: KindNull, typ: "null"},
		"array":    {in: [2]int{1, 2}, kind: KindSequence, typ: "sequence"},
		"value":    {in: Int(3), kind: KindScalar, typ: "int64"},
		"record":   {in: NewRecord(), kind: KindRecord, typ: "record"},
		"nil":      {in: nil, kind: KindNull, typ: "null"},
		"float":    {in: 1.5, kind: KindScalar, typ: "float64"},
		"nil ptr":  {in: (*listener)(nil), kind: KindNull, typ: "null"},
		"struct":   {in: listener{}, kind: KindRecord, typ: "record"},
		"nil list": {in: []string(nil), kind: KindNull, typ: "null"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			value, err := ValueOf(tc.in)
			if err != nil {
				t.Fatalf("value of: %v", err)
			}
			if value.Kind() != tc.kind || value.TypeName() != tc.typ {
				t.Fatalf("expected %s/%s, got %s/%s", tc.kind, tc.typ, value.Kind(), value.TypeName())
			}
		})
	}
}

func TestRecordOfRejectsUnsupportedValues(t *testing.T) {
	_, err := RecordOf(map[string]any{"hook": func() {}})
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.FieldPath() != "hook" {
		t.Fatalf("expected FieldError on hook, got %v", err)
	}

	if _, err := RecordOf(map[int]string{1: "a"}); err == nil {
		t.Fatalf("expected error for non-string keys")
	}
	if _, err := RecordOf("scalar"); err == nil {
		t.Fatalf("expected error for scalar input")
	}
}
