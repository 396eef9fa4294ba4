package fractal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNilTarget indicates FoldInto or Absorb received a nil target record.
var ErrNilTarget = errors.New("fractal: target record is nil")

// TypeMismatchError reports a field whose values have different runtime kinds
// in the two merge operands.
type TypeMismatchError struct {
	Field string
	TypeA string
	TypeB string
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("'%s' has different types: %s and %s", e.Field, e.TypeA, e.TypeB)
}

// InvalidSequenceError reports a sequence operand holding a null or absent
// element.
type InvalidSequenceError struct {
	Field string
	Owner string
	Value Value
}

func (e *InvalidSequenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s.%s=%s: sequence with null values is forbidden", e.Owner, e.Field, describeValue(e.Value))
}

// ScalarConflictError reports two different scalar values for the same field
// when strict scalar merging is enabled.
type ScalarConflictError struct {
	Field  string
	First  any
	Second any
}

func (e *ScalarConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("'%s' has conflicting values: %v and %v", e.Field, e.First, e.Second)
}

// FieldError attributes a merge failure to the full field path at which it
// happened. Path is ordered from the outermost field inwards.
type FieldError struct {
	Label string
	Path  []string
	Err   error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	label := ""
	if e.Label != "" {
		label = fmt.Sprintf(" merging %s:", e.Label)
	}
	return fmt.Sprintf("fractal:%s error while handling field %q: %v", label, e.FieldPath(), e.Err)
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldPath joins Path with dots.
func (e *FieldError) FieldPath() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Path, ".")
}

// wrapFieldError attributes err to field. An existing FieldError gains the
// field as its new outermost path segment rather than being nested.
func wrapFieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		fieldErr.Path = append([]string{field}, fieldErr.Path...)
		return err
	}
	return &FieldError{
		Path: []string{field},
		Err:  err,
	}
}

// labelError fills the result label on a FieldError when it has none.
func labelError(label string, err error) error {
	if err == nil || label == "" {
		return err
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) && fieldErr.Label == "" {
		fieldErr.Label = label
	}
	return err
}

func describeValue(v Value) string {
	raw, err := json.Marshal(v.Interface())
	if err != nil {
		return fmt.Sprintf("%v", v.Interface())
	}
	return string(raw)
}
