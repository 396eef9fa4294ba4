package fractal

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrNoEvaluator indicates no evaluator could be resolved for Select.
var ErrNoEvaluator = errors.New("fractal: evaluator not configured")

// RuleContext carries the inputs of one predicate evaluation. Record fields are
// bound as top-level variables and, all together, as the record map. The
// ambient variables now, args, metadata, index and record are bound last, so a
// field with one of those names is only reachable as record.<name>.
//
// Fields lists every field name a predicate may reference across the parts
// being tested. Names the record lacks are bound to nil.
type RuleContext struct {
	Record   *Record
	Index    int
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Fields   []string
}

var reservedBindings = map[string]struct{}{
	"now":      {},
	"args":     {},
	"metadata": {},
	"index":    {},
	"record":   {},
}

func isReservedBinding(name string) bool {
	_, ok := reservedBindings[name]
	return ok
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// bindings exports the record and the ambient variables for an evaluator.
func (ctx RuleContext) bindings() map[string]any {
	env := map[string]any{}
	for _, name := range ctx.Fields {
		env[name] = nil
	}
	fields := ctx.Record.ToMap()
	if fields == nil {
		fields = map[string]any{}
	}
	for name, value := range fields {
		env[name] = value
	}
	env["now"] = ctx.timestamp()
	env["args"] = ctx.Args
	env["metadata"] = ctx.Metadata
	env["index"] = ctx.Index
	env["record"] = fields
	return env
}

// variables lists the field names to declare for typed engines, sorted and
// without the ambient names.
func (ctx RuleContext) variables() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, name := range append(ctx.Record.Fields(), ctx.Fields...) {
		if _, ok := seen[name]; ok || isReservedBinding(name) {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// SelectOption configures Select.
type SelectOption func(*selectConfig)

type selectConfig struct {
	evaluator    Evaluator
	evaluatorSet bool
	cache     ProgramCache
	functions *FunctionRegistry
	args      map[string]any
	metadata  map[string]any
	now       *time.Time
	logger    EvaluatorLogger
}

// WithEvaluator selects the expression engine. The expr engine is the
// default. A nil evaluator makes Select fail with ErrNoEvaluator.
func WithEvaluator(e Evaluator) SelectOption {
	return func(cfg *selectConfig) {
		cfg.evaluator = e
		cfg.evaluatorSet = true
	}
}

// WithProgramCache shares compiled programs across Select calls made with the
// default evaluator.
func WithProgramCache(cache ProgramCache) SelectOption {
	return func(cfg *selectConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes custom functions to the default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) SelectOption {
	return func(cfg *selectConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
func WithCustomFunction(name string, fn Function) SelectOption {
	return func(cfg *selectConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithArgs binds args for the expression.
func WithArgs(args map[string]any) SelectOption {
	return func(cfg *selectConfig) {
		cfg.args = args
	}
}

// WithMetadata binds metadata for the expression.
func WithMetadata(metadata map[string]any) SelectOption {
	return func(cfg *selectConfig) {
		cfg.metadata = metadata
	}
}

// WithNow pins the now binding.
func WithNow(now time.Time) SelectOption {
	return func(cfg *selectConfig) {
		cfg.now = &now
	}
}

// Select returns the parts of whole for which expr evaluates to true, in
// order. A record that is not a fold result is tested as its own single part.
// Expressions must produce a bool.
func Select(whole *Record, expr string, opts ...SelectOption) ([]*Record, error) {
	if expr == "" {
		return nil, fmt.Errorf("fractal: expression must not be empty")
	}
	cfg := selectConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engine, expr, -1, err)
	}

	parts := Parts(whole)
	if len(parts) == 0 && whole != nil {
		parts = []*Record{whole}
	}
	fields := fieldUnion(parts)
	logger := cfg.evaluatorLogger()
	selected := make([]*Record, 0, len(parts))
	for i, part := range parts {
		ctx := RuleContext{
			Record:   part,
			Index:    i,
			Now:      cfg.now,
			Args:     cfg.args,
			Metadata: cfg.metadata,
			Fields:   fields,
		}.withDefaults()
		start := time.Now()
		match, err := evaluatePredicate(rule, ctx)
		if err != nil {
			err = wrapEvaluationError(engine, expr, i, err)
		}
		logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expr,
			Part:     i,
			Matched:  match,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			return nil, err
		}
		if match {
			selected = append(selected, part)
		}
	}
	return selected, nil
}

// fieldUnion lists the field names of all parts in first-seen order.
func fieldUnion(parts []*Record) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, part := range parts {
		for name := range part.All() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

func evaluatePredicate(rule CompiledRule, ctx RuleContext) (bool, error) {
	out, err := rule.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	match, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("result is %T, want bool", out)
	}
	return match, nil
}

func (cfg selectConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluatorSet {
		if cfg.evaluator == nil {
			return nil, ErrNoEvaluator
		}
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	return NewExprEvaluator(exprOpts...), nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	case nil:
		return "unknown"
	}
	if isJSEvaluator(e) {
		return "js"
	}
	return "custom"
}
