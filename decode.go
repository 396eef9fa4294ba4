package fractal

import (
	"github.com/goliatone/go-fractal/internal/hydrate"
)

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	label           string
	useNumber       bool
	disallowUnknown bool
	preHooks        []func(map[string]any) (map[string]any, error)
}

// DecodeWithLabel names the record in decode errors.
func DecodeWithLabel(label string) DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.label = label
	}
}

// DecodeUseNumber decodes numbers inside untyped fields as json.Number.
func DecodeUseNumber() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.useNumber = true
	}
}

// DecodeStrict rejects fields that T does not declare.
func DecodeStrict() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.disallowUnknown = true
	}
}

// DecodeWithPreHook reshapes the exported payload before decoding.
func DecodeWithPreHook(hook func(map[string]any) (map[string]any, error)) DecodeOption {
	return func(cfg *decodeConfig) {
		if hook != nil {
			cfg.preHooks = append(cfg.preHooks, hook)
		}
	}
}

// Decode hydrates r, typically a fold result, into a typed value through its
// JSON form. Provenance is not part of the payload.
func Decode[T any](r *Record, opts ...DecodeOption) (T, error) {
	cfg := decodeConfig{label: "record"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var decoderOpts []hydrate.DecoderOption[T]
	if cfg.useNumber {
		decoderOpts = append(decoderOpts, hydrate.WithUseNumber[T]())
	}
	if cfg.disallowUnknown {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	for _, hook := range cfg.preHooks {
		hook := hook
		decoderOpts = append(decoderOpts, hydrate.WithPreHook[T](func(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
			return hook(payload)
		}))
	}
	return hydrate.NewDecoder(decoderOpts...).Decode(hydrate.Context{Label: cfg.label}, r.ToMap())
}
