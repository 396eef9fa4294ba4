package fractal

// DefaultMultiply merges a and b with the default rule set. It is the
// MultiplyFunc used by Fold when no WithMultiply option is given.
func DefaultMultiply(a, b *Record) (*Record, error) {
	return Merge(a, b)
}

// Merge combines two records field by field into a new record:
//
//   - a field present on one side only keeps that value;
//   - sequences are concatenated, first operand first;
//   - nested records are merged recursively;
//   - scalars of the same type resolve to the second operand.
//
// Either operand may be nil (absent); both nil yields nil. Fields whose values
// have different kinds fail with a TypeMismatchError, and sequences holding
// nulls fail with an InvalidSequenceError. Errors are wrapped in a FieldError
// naming the full field path, and no partial result is returned.
func Merge(a, b *Record, opts ...Option) (*Record, error) {
	cfg := applyOptions(opts)
	m := merger{label: cfg.label, strictScalars: cfg.strictScalars}
	return m.merge(a, b)
}

type merger struct {
	label         string
	strictScalars bool
}

func (m merger) owner() string {
	return foldConfig{label: m.label}.ownerName()
}

func (m merger) merge(a, b *Record) (*Record, error) {
	result, err := m.mergeRecords(a, b)
	if err != nil {
		return nil, labelError(m.label, err)
	}
	return result, nil
}

func (m merger) mergeRecords(a, b *Record) (*Record, error) {
	if a == nil && b == nil {
		return nil, nil
	}

	result := NewRecord()
	for _, name := range unionFields(a, b) {
		va, okA := a.Get(name)
		vb, okB := b.Get(name)
		merged, err := m.mergeField(name, va, okA, vb, okB)
		if err != nil {
			return nil, wrapFieldError(name, err)
		}
		result.Set(name, merged)
	}
	return result, nil
}

func (m merger) mergeField(name string, va Value, okA bool, vb Value, okB bool) (Value, error) {
	if !okA {
		return vb, nil
	}
	if !okB {
		return va, nil
	}
	if !sameKind(va, vb) {
		return Value{}, &TypeMismatchError{Field: name, TypeA: va.TypeName(), TypeB: vb.TypeName()}
	}

	switch va.Kind() {
	case KindSequence:
		for _, operand := range []Value{va, vb} {
			if hasNullItem(operand) {
				return Value{}, &InvalidSequenceError{Field: name, Owner: m.owner(), Value: operand}
			}
		}
		items := make([]Value, 0, len(va.items)+len(vb.items))
		items = append(items, va.items...)
		items = append(items, vb.items...)
		return Value{kind: KindSequence, items: items}, nil
	case KindRecord:
		nested, err := m.mergeRecords(va.Record(), vb.Record())
		if err != nil {
			return Value{}, err
		}
		return Nested(nested), nil
	default:
		if m.strictScalars && !equalValue(va, vb) {
			return Value{}, &ScalarConflictError{Field: name, First: va.Interface(), Second: vb.Interface()}
		}
		return vb, nil
	}
}

// unionFields lists the fields of a followed by the fields only b has.
func unionFields(a, b *Record) []string {
	names := a.Fields()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, name := range b.Fields() {
		if _, ok := seen[name]; ok {
			continue
		}
		names = append(names, name)
	}
	return names
}

func hasNullItem(seq Value) bool {
	for _, item := range seq.Items() {
		if item.IsAbsent() || item.IsNull() {
			return true
		}
	}
	return false
}
