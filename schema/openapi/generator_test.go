package openapi

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	fractal "github.com/goliatone/go-fractal"
)

func TestNewGeneratorOptions(t *testing.T) {
	custom := NewGenerator(
		WithOpenAPIVersion("3.1.0"),
		WithInfo("Custom Service", "", "custom schema"),
		WithOperation("/settings", "PUT", "updateSettings"),
		WithContentType("application/yaml"),
		WithSchemaName("Settings"),
		WithoutFieldOrder(),
		WithoutPartCount(),
	)

	cfg := custom.config
	if cfg.openAPIVersion != "3.1.0" || cfg.title != "Custom Service" || cfg.description != "custom schema" {
		t.Fatalf("unexpected info config: %+v", cfg)
	}
	if cfg.version != "1.0.0" {
		t.Fatalf("expected default version to remain, got %q", cfg.version)
	}
	if cfg.method != "put" || cfg.path != "/settings" || cfg.operationID != "updateSettings" {
		t.Fatalf("unexpected operation config: %+v", cfg)
	}
	if cfg.contentType != "application/yaml" || cfg.schemaName != "Settings" {
		t.Fatalf("unexpected body config: %+v", cfg)
	}
	if cfg.fieldOrder || cfg.partCount {
		t.Fatalf("expected extensions to be disabled: %+v", cfg)
	}
}

func TestGenerateSchemaComponent(t *testing.T) {
	whole, err := fractal.Fold([]*fractal.Record{
		fractal.NewRecord().Set("o", fractal.Nested(fractal.NewRecord().Set("a", fractal.Int(1)))),
		fractal.NewRecord().Set("o", fractal.Nested(fractal.NewRecord().Set("b", fractal.Int(2)))),
	})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}

	document, err := NewGenerator(WithSchemaName("Settings"), WithoutFieldOrder(), WithoutPartCount()).Generate(whole)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	operation := document["paths"].(map[string]any)["/records"].(map[string]any)["post"].(map[string]any)
	if operation["operationId"] != "post:/records" {
		t.Fatalf("unexpected default operation id %v", operation["operationId"])
	}
	content := operation["requestBody"].(map[string]any)["content"].(map[string]any)
	ref := content["application/json"].(map[string]any)["schema"]
	if diff := cmp.Diff(map[string]any{"$ref": "#/components/schemas/Settings"}, ref); diff != "" {
		t.Fatalf("unexpected body schema (-want +got):\n%s", diff)
	}

	component := document["components"].(map[string]any)["schemas"].(map[string]any)["Settings"]
	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"o": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": map[string]any{"type": "integer"},
					"b": map[string]any{"type": "integer"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, component); diff != "" {
		t.Fatalf("unexpected component (-want +got):\n%s", diff)
	}
}

func TestSchemaFollowsRecord(t *testing.T) {
	r := fractal.NewRecord().
		Set("name", fractal.String("svc")).
		Set("ports", fractal.Sequence(fractal.Int(80))).
		Set("ratio", fractal.Float(0.5)).
		Set("started", fractal.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))).
		Set("tls", fractal.Nested(fractal.NewRecord().Set("enabled", fractal.Bool(true)))).
		Set("owner", fractal.Null())

	schema, err := Schema(r)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"ports":   map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
			"ratio":   map[string]any{"type": "number"},
			"started": map[string]any{"type": "string", "format": "date-time"},
			"tls": map[string]any{
				"type":            "object",
				"properties":      map[string]any{"enabled": map[string]any{"type": "boolean"}},
				"x-fractal-order": []string{"enabled"},
			},
			"owner": map[string]any{"nullable": true},
		},
		"x-fractal-order": []string{"name", "ports", "ratio", "started", "tls", "owner"},
	}
	if diff := cmp.Diff(want, schema); diff != "" {
		t.Fatalf("unexpected schema (-want +got):\n%s", diff)
	}
}

func TestGenerateFoldDocument(t *testing.T) {
	whole, err := fractal.Fold([]*fractal.Record{
		fractal.NewRecord().Set("tags", fractal.Sequence(fractal.String("a"))),
		fractal.NewRecord().Set("tags", fractal.Sequence(fractal.String("b"))),
	})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}

	document, err := NewGenerator(WithOperation("/tags", "", "listTags")).Generate(whole)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if document["openapi"] != "3.0.3" {
		t.Fatalf("unexpected version %v", document["openapi"])
	}
	paths := document["paths"].(map[string]any)
	operation := paths["/tags"].(map[string]any)["post"].(map[string]any)
	if operation["operationId"] != "listTags" {
		t.Fatalf("unexpected operation id %v", operation["operationId"])
	}
	content := operation["requestBody"].(map[string]any)["content"].(map[string]any)
	schema := content["application/json"].(map[string]any)["schema"].(map[string]any)
	if schema["x-fractal-parts"] != 2 {
		t.Fatalf("expected part count, got %v", schema["x-fractal-parts"])
	}
}

func TestGenerateRejectsNil(t *testing.T) {
	if _, err := NewGenerator().Generate(nil); err == nil {
		t.Fatalf("expected error for nil record")
	}
}

func TestValidateDocumentRequiresInfo(t *testing.T) {
	err := validateDocument(map[string]any{"openapi": "3.0.3", "info": map[string]any{"title": "x"}})
	if err == nil {
		t.Fatalf("expected missing version error")
	}
}
