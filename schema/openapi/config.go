package openapi

import "strings"

type generatorConfig struct {
	openAPIVersion string
	title          string
	version        string
	description    string
	path           string
	method         string
	operationID    string
	contentType    string
	schemaName     string
	fieldOrder     bool
	partCount      bool
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: "3.0.3",
		title:          "Record Schema",
		version:        "1.0.0",
		path:           "/records",
		method:         "post",
		contentType:    "application/json",
		fieldOrder:     true,
		partCount:      true,
	}
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.openAPIVersion = version
		}
	}
}

// WithInfo sets the info block. Empty title or version keep the defaults.
func WithInfo(title, version, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.version = version
		}
		cfg.description = description
	}
}

// WithOperation sets the path, method and operationId the record is posted
// to. Empty inputs keep the defaults; the operationId defaults to
// "<method>:<path>".
func WithOperation(path, method, operationID string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.path = path
		}
		if method != "" {
			cfg.method = strings.ToLower(method)
		}
		cfg.operationID = operationID
	}
}

// WithContentType sets the request body media type (default: application/json).
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType != "" {
			cfg.contentType = contentType
		}
	}
}

// WithSchemaName publishes the record schema under components/schemas and
// references it from the request body.
func WithSchemaName(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.schemaName = strings.TrimSpace(name)
	}
}

// WithoutFieldOrder omits the x-fractal-order extension.
func WithoutFieldOrder() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.fieldOrder = false
	}
}

// WithoutPartCount omits the x-fractal-parts extension on fold results.
func WithoutPartCount() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.partCount = false
	}
}
