package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	fractal "github.com/goliatone/go-fractal"
)

func TestDecodeYAMLKeepsFieldOrder(t *testing.T) {
	record, err := DecodeYAML([]byte(`
zeta: 1
alpha:
  second: true
  first: [a, b]
mid: text
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, record.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	alpha, _ := record.Get("alpha")
	if diff := cmp.Diff([]string{"second", "first"}, alpha.Record().Fields()); diff != "" {
		t.Fatalf("nested field order mismatch (-want +got):\n%s", diff)
	}
	zeta, _ := record.Get("zeta")
	if zeta.TypeName() != "int64" {
		t.Fatalf("expected int64 scalar, got %s", zeta.TypeName())
	}
}

func TestDecodeYAMLScalarKinds(t *testing.T) {
	record, err := DecodeYAML([]byte(`
date: 2018-01-02
flag: false
ratio: 0.5
none: null
quoted: "2018-01-02"
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{
		"date":   "time.Time",
		"flag":   "bool",
		"ratio":  "float64",
		"none":   "null",
		"quoted": "string",
	}
	for name, typeName := range want {
		value, ok := record.Get(name)
		if !ok {
			t.Fatalf("missing field %q", name)
		}
		if value.TypeName() != typeName {
			t.Fatalf("field %q: expected %s, got %s", name, typeName, value.TypeName())
		}
	}
	date, _ := record.Get("date")
	if !date.ScalarValue().(time.Time).Equal(time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", date.ScalarValue())
	}
}

func TestDecodeYAMLMergeKey(t *testing.T) {
	record, err := DecodeYAML([]byte(`
base: &base
  host: localhost
  port: 80
site:
  <<: *base
  port: 8080
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	site, _ := record.Get("site")
	got := site.Record().ToMap()
	want := map[string]any{"host": "localhost", "port": int64(8080)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge key mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsNonMappingRoot(t *testing.T) {
	_, err := DecodeYAML([]byte(`- a`))
	if !errors.Is(err, ErrNotRecord) {
		t.Fatalf("expected ErrNotRecord, got %v", err)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	record, err := DecodeYAML(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.Len() != 0 {
		t.Fatalf("expected empty record, got %v", record.Fields())
	}
}

func TestDecodeJSONKeepsOrderAndNull(t *testing.T) {
	record, err := DecodeJSON([]byte(`{"b": [1, null], "a": {"y": "1", "x": 2.5}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, record.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	b, _ := record.Get("b")
	if !b.Items()[1].IsNull() {
		t.Fatalf("expected null element, got %v", b.Items()[1].Kind())
	}
}

func TestDecodeTOML(t *testing.T) {
	record, err := DecodeTOML([]byte(`
name = "edge"
tags = ["a", "b"]

[server]
port = 8080
host = "0.0.0.0"

[[routes]]
path = "/"
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "tags", "server", "routes"}, record.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	server, _ := record.Get("server")
	if diff := cmp.Diff([]string{"port", "host"}, server.Record().Fields()); diff != "" {
		t.Fatalf("table order mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"name":   "edge",
		"tags":   []any{"a", "b"},
		"server": map[string]any{"port": int64(8080), "host": "0.0.0.0"},
		"routes": []any{map[string]any{"path": "/"}},
	}
	if diff := cmp.Diff(want, record.ToMap()); diff != "" {
		t.Fatalf("toml mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodedFormatsFold(t *testing.T) {
	fromYAML, err := DecodeYAML([]byte("tags: [a]\nserver:\n  port: 80\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	fromTOML, err := DecodeTOML([]byte("tags = [\"b\"]\n[server]\nport = 8080\n"))
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	folded, err := fractal.Fold([]*fractal.Record{fromYAML, fromTOML})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	want := map[string]any{
		"tags":   []any{"a", "b"},
		"server": map[string]any{"port": int64(8080)},
	}
	if diff := cmp.Diff(want, folded.ToMap()); diff != "" {
		t.Fatalf("fold mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	source := "name: edge\nserver:\n  port: 8080\n  tags: [a, b]\n  when: 2018-01-02T00:00:00Z\nempty: null\n"
	record, err := DecodeYAML([]byte(source))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := EncodeYAML(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(string(out), "name: edge\n") {
		t.Fatalf("expected field order preserved, got:\n%s", out)
	}
	again, err := DecodeYAML(out)
	if err != nil {
		t.Fatalf("decode encoded: %v", err)
	}
	if !fractal.Equal(record, again) {
		t.Fatalf("round trip mismatch:\n%s", out)
	}
	if diff := cmp.Diff(record.Fields(), again.Fields()); diff != "" {
		t.Fatalf("round trip order mismatch (-want +got):\n%s", diff)
	}
}
