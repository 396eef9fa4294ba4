package fractal

import (
	"bytes"
	"encoding/json"
	"iter"
	"reflect"
	"time"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Record is an ordered mapping from field name to Value. Records are handled
// by pointer: provenance entries keep the identity of the records that were
// folded, so edits through one alias are visible through every other.
//
// The zero Record is empty and ready to use.
type Record struct {
	fields *sequencedmap.Map[string, Value]
	parts  []*Record
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

func (r *Record) ensure() {
	if r.fields == nil {
		r.fields = sequencedmap.New[string, Value]()
	}
}

// Set stores value under name and returns r for chaining. Overwriting keeps the
// field's original position. Storing an absent value hides the field.
func (r *Record) Set(name string, value Value) *Record {
	r.ensure()
	r.fields.Set(name, value)
	return r
}

// Get returns the value stored under name. Absent values report ok=false.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil || r.fields == nil {
		return Value{}, false
	}
	value, ok := r.fields.Get(name)
	if !ok || value.IsAbsent() {
		return Value{}, false
	}
	return value, true
}

// Has reports whether name holds a present value.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// All iterates the present fields in order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if r == nil || r.fields == nil {
			return
		}
		for name, value := range r.fields.All() {
			if value.IsAbsent() {
				continue
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

// Fields returns the names of the present fields in order.
func (r *Record) Fields() []string {
	var names []string
	for name := range r.All() {
		names = append(names, name)
	}
	return names
}

// Len returns the number of present fields.
func (r *Record) Len() int {
	n := 0
	for range r.All() {
		n++
	}
	return n
}

// Clone returns a shallow copy of the fields. Provenance is not copied.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := NewRecord()
	for name, value := range r.All() {
		out.Set(name, value)
	}
	return out
}

// ToMap exports the record into plain Go values.
func (r *Record) ToMap() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, r.Len())
	for name, value := range r.All() {
		out[name] = value.Interface()
	}
	return out
}

// MarshalJSON encodes the fields in order. Provenance is never encoded.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for name, value := range r.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, value Value) error {
	switch value.Kind() {
	case KindRecord:
		raw, err := value.Record().MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range value.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindScalar:
		raw, err := json.Marshal(value.ScalarValue())
		if err != nil {
			return err
		}
		buf.Write(raw)
	default:
		buf.WriteString("null")
	}
	return nil
}

// Equal reports whether a and b hold the same present fields with equal
// values, ignoring field order and provenance.
func Equal(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	for name, av := range a.All() {
		bv, ok := b.Get(name)
		if !ok || !equalValue(av, bv) {
			return false
		}
	}
	return true
}

func equalValue(a, b Value) bool {
	if !sameKind(a, b) {
		return false
	}
	switch a.Kind() {
	case KindRecord:
		return Equal(a.Record(), b.Record())
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !equalValue(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindScalar:
		if at, ok := a.scalar.(time.Time); ok {
			return at.Equal(b.scalar.(time.Time))
		}
		return reflect.DeepEqual(a.scalar, b.scalar)
	default:
		return true
	}
}
