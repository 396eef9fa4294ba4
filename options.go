package fractal

import "github.com/goliatone/go-fractal/pkg/activity"

// MultiplyFunc combines two records of the same shape into one. Implementations
// must keep the shape of their operands, be associative, and treat a nil
// operand as the identity: multiply(a, nil) and multiply(nil, a) yield a.
type MultiplyFunc func(a, b *Record) (*Record, error)

// Option configures Merge, Fold, FoldInto and Absorb.
type Option func(*foldConfig)

type foldConfig struct {
	multiply      MultiplyFunc
	label         string
	strictScalars bool
	logger        FoldLogger
	activityHooks activity.Hooks
	activity      activity.Config
}

func applyOptions(opts []Option) foldConfig {
	cfg := foldConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithMultiply replaces the per-pair merge step used by Fold.
func WithMultiply(fn MultiplyFunc) Option {
	return func(cfg *foldConfig) {
		cfg.multiply = fn
	}
}

// WithResultLabel names the result in error messages and log events.
func WithResultLabel(label string) Option {
	return func(cfg *foldConfig) {
		cfg.label = label
	}
}

// WithStrictScalars makes the default merge fail with ScalarConflictError when
// both operands hold different scalar values, instead of keeping the second.
// Folding becomes order-independent by value, not just by shape.
func WithStrictScalars() Option {
	return func(cfg *foldConfig) {
		cfg.strictScalars = true
	}
}

// WithFoldLogger attaches a logger that receives one event per fold.
func WithFoldLogger(logger FoldLogger) Option {
	return func(cfg *foldConfig) {
		if logger == nil {
			cfg.logger = noopFoldLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (cfg foldConfig) multiplyFunc() MultiplyFunc {
	if cfg.multiply != nil {
		return cfg.multiply
	}
	m := merger{label: cfg.label, strictScalars: cfg.strictScalars}
	return m.merge
}

func (cfg foldConfig) foldLogger() FoldLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopFoldLogger{}
}

func (cfg foldConfig) ownerName() string {
	if cfg.label != "" {
		return cfg.label
	}
	return "Record"
}
