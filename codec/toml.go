package codec

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	fractal "github.com/goliatone/go-fractal"
)

// DecodeTOML parses a TOML document into a record. Field order follows the
// order in which keys appear in the document.
func DecodeTOML(data []byte) (*fractal.Record, error) {
	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("codec: parse toml: %w", err)
	}

	record := fractal.NewRecord()
	for _, key := range meta.Keys() {
		if err := placeTOMLKey(record, raw, key); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// placeTOMLKey creates the field addressed by key inside record. Tables become
// nested records the first time they are seen; leaves are converted from the
// decoded map.
func placeTOMLKey(record *fractal.Record, raw map[string]any, key toml.Key) error {
	current := record
	source := raw
	for i, segment := range key {
		value, ok := source[segment]
		if !ok {
			return fmt.Errorf("codec: toml key %q missing from decoded document", key.String())
		}
		last := i == len(key)-1
		table, isTable := value.(map[string]any)
		if !isTable {
			if !last {
				// keys below an array of tables are placed with the array itself
				return nil
			}
			if current.Has(segment) {
				return nil
			}
			converted, err := fractal.ValueOf(normalizeTOML(value))
			if err != nil {
				return fmt.Errorf("codec: toml key %q: %w", key.String(), err)
			}
			current.Set(segment, converted)
			return nil
		}
		existing, ok := current.Get(segment)
		if !ok {
			existing = fractal.Nested(fractal.NewRecord())
			current.Set(segment, existing)
		}
		if existing.Kind() != fractal.KindRecord {
			return fmt.Errorf("codec: toml key %q is not a table", strings.Join(key[:i+1], "."))
		}
		current = existing.Record()
		source = table
	}
	return nil
}

// normalizeTOML turns arrays of tables into plain sequences of maps.
func normalizeTOML(value any) any {
	switch typed := value.(type) {
	case []map[string]any:
		out := make([]any, len(typed))
		for i, table := range typed {
			out[i] = normalizeTOML(table)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeTOML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeTOML(v)
		}
		return out
	default:
		return typed
	}
}
