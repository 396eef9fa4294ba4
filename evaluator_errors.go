package fractal

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError captures evaluator metadata alongside the originating error.
// Part is the index of the part being tested, or -1 for compile failures.
type EvaluationError struct {
	Engine string
	Expr   string
	Part   int
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := "compile"
	if e.Part >= 0 {
		where = fmt.Sprintf("part=%d", e.Part)
	}
	return fmt.Sprintf("fractal: %s evaluator %s %s: %v", e.Engine, describeExpression(e.Expr), where, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "fractal:") {
		return err
	}
	return fmt.Errorf("fractal: %s evaluator: %w", engine, err)
}

// wrapEvaluationError fills missing metadata on an existing EvaluationError
// or creates a new one.
func wrapEvaluationError(engine, expr string, part int, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Part < 0 {
			evalErr.Part = part
		}
		return evalErr
	}
	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Part:   part,
		Err:    err,
	}
}
