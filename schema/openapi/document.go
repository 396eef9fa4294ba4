package openapi

import "fmt"

type documentBuilder struct {
	config generatorConfig
	schema map[string]any
}

func newDocumentBuilder(config generatorConfig, schema map[string]any) *documentBuilder {
	return &documentBuilder{config: config, schema: schema}
}

func (b *documentBuilder) build() (map[string]any, error) {
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(),
	}
	if b.config.schemaName != "" {
		document["components"] = map[string]any{
			"schemas": map[string]any{b.config.schemaName: b.schema},
		}
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.title,
		"version": b.config.version,
	}
	if b.config.description != "" {
		info["description"] = b.config.description
	}
	return info
}

func (b *documentBuilder) bodySchema() map[string]any {
	if b.config.schemaName == "" {
		return b.schema
	}
	return map[string]any{"$ref": "#/components/schemas/" + b.config.schemaName}
}

func (b *documentBuilder) buildPaths() map[string]any {
	method := b.config.method
	if method == "" {
		method = "post"
	}
	operation := map[string]any{
		"operationId": b.operationID(method),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				b.config.contentType: map[string]any{
					"schema": b.bodySchema(),
				},
			},
		},
		"responses": map[string]any{
			"204": map[string]any{"description": "OK"},
		},
	}
	return map[string]any{
		b.config.path: map[string]any{
			method: operation,
		},
	}
}

func (b *documentBuilder) operationID(method string) string {
	if b.config.operationID != "" {
		return b.config.operationID
	}
	return fmt.Sprintf("%s:%s", method, b.config.path)
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
