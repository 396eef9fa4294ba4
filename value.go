package fractal

import (
	"reflect"
	"time"
)

// Kind classifies a Value for merge-rule dispatch.
type Kind int

const (
	// KindAbsent is the zero Value: no value at all. It is the identity of
	// Merge and never counts as a present field.
	KindAbsent Kind = iota
	// KindNull is an explicit, present null.
	KindNull
	// KindScalar is an opaque leaf compared only by the Go type of its payload.
	KindScalar
	// KindSequence is an ordered list of values.
	KindSequence
	// KindRecord is a nested record.
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a closed tagged variant holding one field value. The zero Value is
// absent.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	record *Record
}

// Absent returns the absent Value.
func Absent() Value { return Value{} }

// Null returns an explicit null.
func Null() Value { return Value{kind: KindNull} }

// Scalar wraps an opaque leaf. A nil payload yields Null.
func Scalar(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindScalar, scalar: v}
}

func String(s string) Value { return Scalar(s) }

func Int(i int64) Value { return Scalar(i) }

func Float(f float64) Value { return Scalar(f) }

func Bool(b bool) Value { return Scalar(b) }

func Time(t time.Time) Value { return Scalar(t) }

// Sequence builds a sequence value. The items slice is copied.
func Sequence(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindSequence, items: out}
}

// Nested wraps r as a nested record value. A nil record yields Null.
func Nested(r *Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindRecord, record: r}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the absent value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNull reports whether v is an explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// ScalarValue returns the scalar payload, or nil for non-scalars.
func (v Value) ScalarValue() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the elements of a sequence. The slice is shared with v.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Record returns the nested record, or nil for non-records.
func (v Value) Record() *Record {
	if v.kind != KindRecord {
		return nil
	}
	return v.record
}

// TypeName names the runtime kind of v. Scalars report the Go type of their
// payload so that two scalars are compatible only when their types match.
func (v Value) TypeName() string {
	switch v.kind {
	case KindScalar:
		return reflect.TypeOf(v.scalar).String()
	default:
		return v.kind.String()
	}
}

// sameKind reports whether two present values may be merged with each other.
func sameKind(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindScalar {
		return reflect.TypeOf(a.scalar) == reflect.TypeOf(b.scalar)
	}
	return true
}

// Interface exports v into plain Go values: map[string]any for records, []any
// for sequences, the payload for scalars and nil for null or absent.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindRecord:
		return v.record.ToMap()
	default:
		return nil
	}
}
