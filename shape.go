package fractal

import "strings"

// FieldDescriptor describes a field path and the type name of its value.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Shape flattens r into field descriptors in document order. Nested records
// are descended into; sequences report their element type from the first
// element, or "[]any" when empty.
func Shape(r *Record) []FieldDescriptor {
	descriptors := deriveFieldDescriptors(r, "")
	if descriptors == nil {
		return []FieldDescriptor{}
	}
	return descriptors
}

func deriveFieldDescriptors(r *Record, prefix string) []FieldDescriptor {
	var fields []FieldDescriptor
	for name, value := range r.All() {
		path := joinPath(prefix, name)
		switch value.Kind() {
		case KindRecord:
			nested := deriveFieldDescriptors(value.Record(), path)
			if len(nested) == 0 {
				nested = []FieldDescriptor{{Path: path, Type: "record"}}
			}
			fields = append(fields, nested...)
		case KindSequence:
			elementType := "any"
			if items := value.Items(); len(items) > 0 {
				elementType = items[0].TypeName()
			}
			fields = append(fields, FieldDescriptor{Path: path, Type: "[]" + elementType})
		default:
			fields = append(fields, FieldDescriptor{Path: path, Type: value.TypeName()})
		}
	}
	return fields
}

// CheckCompatible reports the first error Merge(a, b) would hit, without
// building a result. Sequence contents are checked for nulls the same way
// Merge checks them, and WithStrictScalars also checks scalar values.
func CheckCompatible(a, b *Record, opts ...Option) error {
	cfg := applyOptions(opts)
	m := merger{label: cfg.label, strictScalars: cfg.strictScalars}
	return labelError(cfg.label, m.checkRecords(a, b))
}

func (m merger) checkRecords(a, b *Record) error {
	for _, name := range unionFields(a, b) {
		va, okA := a.Get(name)
		vb, okB := b.Get(name)
		if !okA || !okB {
			continue
		}
		if err := m.checkField(name, va, vb); err != nil {
			return wrapFieldError(name, err)
		}
	}
	return nil
}

func (m merger) checkField(name string, va, vb Value) error {
	if !sameKind(va, vb) {
		return &TypeMismatchError{Field: name, TypeA: va.TypeName(), TypeB: vb.TypeName()}
	}
	switch va.Kind() {
	case KindSequence:
		for _, operand := range []Value{va, vb} {
			if hasNullItem(operand) {
				return &InvalidSequenceError{Field: name, Owner: m.owner(), Value: operand}
			}
		}
	case KindRecord:
		return m.checkRecords(va.Record(), vb.Record())
	case KindScalar:
		if m.strictScalars && !equalValue(va, vb) {
			return &ScalarConflictError{Field: name, First: va.Interface(), Second: vb.Interface()}
		}
	}
	return nil
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
