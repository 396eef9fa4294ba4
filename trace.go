package fractal

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyPath indicates a lookup or trace with no path.
var ErrEmptyPath = errors.New("fractal: path must not be empty")

// Trace captures, for one field path, the folded value and what every part of
// the fold held at that path.
type Trace struct {
	Path  string      `json:"path"`
	Value any         `json:"value,omitempty"`
	Found bool        `json:"found"`
	Parts []PartTrace `json:"parts"`
}

// PartTrace details how one part contributed to a traced path. Index is the
// position of the part in Parts(whole).
type PartTrace struct {
	Index int    `json:"index"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// Contributors returns the indexes of the parts that define the path.
func (t Trace) Contributors() []int {
	var out []int
	for _, part := range t.Parts {
		if part.Found {
			out = append(out, part.Index)
		}
	}
	return out
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON. Values come back as
// plain JSON types.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// TracePath resolves a dot separated path on whole and on each of its parts.
// A record that is not a fold result is traced as its own single part.
func TracePath(whole *Record, path string) (Trace, error) {
	if strings.TrimSpace(path) == "" {
		return Trace{}, ErrEmptyPath
	}
	trace := Trace{Path: path}
	if value, ok := Lookup(whole, path); ok {
		trace.Value = value.Interface()
		trace.Found = true
	}

	parts := Parts(whole)
	if len(parts) == 0 && whole != nil {
		parts = []*Record{whole}
	}
	trace.Parts = make([]PartTrace, len(parts))
	for i, part := range parts {
		entry := PartTrace{Index: i}
		if value, ok := Lookup(part, path); ok {
			entry.Type = value.TypeName()
			entry.Value = value.Interface()
			entry.Found = true
		}
		trace.Parts[i] = entry
	}
	return trace, nil
}

// Lookup walks a dot separated path through nested records.
func Lookup(r *Record, path string) (Value, bool) {
	if path == "" {
		return Value{}, false
	}
	current := r
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, ok := current.Get(segment)
		if !ok {
			return Value{}, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		if value.Kind() != KindRecord {
			return Value{}, false
		}
		current = value.Record()
	}
	return Value{}, false
}
