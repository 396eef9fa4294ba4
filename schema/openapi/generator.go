// Package openapi describes the shape of a fractal record as an OpenAPI
// document whose request body schema matches the record.
package openapi

import (
	"fmt"
	"reflect"
	"time"

	fractal "github.com/goliatone/go-fractal"
)

// Generator builds OpenAPI documents from records.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a Generator with defaults adjusted by opts.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate returns an OpenAPI document for r. Fold results report how many
// parts they were built from under x-fractal-parts.
func (g Generator) Generate(r *fractal.Record) (map[string]any, error) {
	if r == nil {
		return nil, fmt.Errorf("openapi: record cannot be nil")
	}
	schema, err := schemaForRecord(r, g.config.fieldOrder)
	if err != nil {
		return nil, err
	}
	if g.config.partCount && fractal.IsFold(r) {
		schema["x-fractal-parts"] = len(fractal.Parts(r))
	}
	return newDocumentBuilder(g.config, schema).build()
}

// Schema returns the object schema of r. Property order is not kept by the
// map, so the field names are listed in order under x-fractal-order.
func Schema(r *fractal.Record) (map[string]any, error) {
	return schemaForRecord(r, true)
}

func schemaForRecord(r *fractal.Record, fieldOrder bool) (map[string]any, error) {
	properties := map[string]any{}
	order := []string{}
	for name, value := range r.All() {
		child, err := schemaForValue(value, fieldOrder)
		if err != nil {
			return nil, fmt.Errorf("openapi: field %q: %w", name, err)
		}
		properties[name] = child
		order = append(order, name)
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if fieldOrder {
		schema["x-fractal-order"] = order
	}
	return schema, nil
}

func schemaForValue(value fractal.Value, fieldOrder bool) (map[string]any, error) {
	switch value.Kind() {
	case fractal.KindNull:
		return map[string]any{"nullable": true}, nil
	case fractal.KindRecord:
		return schemaForRecord(value.Record(), fieldOrder)
	case fractal.KindSequence:
		return schemaForSequence(value.Items(), fieldOrder)
	case fractal.KindScalar:
		return schemaForScalar(value.ScalarValue()), nil
	default:
		return nil, fmt.Errorf("openapi: absent value has no schema")
	}
}

func schemaForSequence(items []fractal.Value, fieldOrder bool) (map[string]any, error) {
	itemSchema := map[string]any{}
	if len(items) > 0 {
		var err error
		itemSchema, err = schemaForValue(items[0], fieldOrder)
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{
		"type":  "array",
		"items": itemSchema,
	}, nil
}

func schemaForScalar(v any) map[string]any {
	if _, ok := v.(time.Time); ok {
		return map[string]any{
			"type":   "string",
			"format": "date-time",
		}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return map[string]any{
				"type":   "string",
				"format": "byte",
			}
		}
	}
	return map[string]any{
		"type":   "string",
		"format": fmt.Sprintf("go:%s", rv.Type().String()),
	}
}
