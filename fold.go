package fractal

import (
	"errors"
	"time"
)

// Fold multiplies records pairwise from left to right into a single record of
// the same shape: Fold([a, b, c]) is multiply(multiply(a, b), c).
//
// An empty input yields nil. A single record yields multiply(r, nil), a
// detached copy validated by the merge rules. The result carries the flat list
// of original records that produced it, readable through Parts: inputs that
// are themselves fold results contribute their own parts instead of
// themselves. Nil entries are skipped.
func Fold(records []*Record, opts ...Option) (*Record, error) {
	cfg := applyOptions(opts)
	start := time.Now()
	result, err := fold(cfg, records)
	cfg.report("fold", records, result, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FoldInto folds records and copies every field of the result onto target,
// overwriting fields with the same name, then attaches the result's parts to
// target. When the fold yields nil, target is left untouched.
func FoldInto(target *Record, records []*Record, opts ...Option) error {
	if target == nil {
		return ErrNilTarget
	}
	cfg := applyOptions(opts)
	start := time.Now()
	result, err := fold(cfg, records)
	if err == nil && result != nil {
		copyFields(target, result)
		target.parts = result.parts
	}
	cfg.report("fold_into", records, result, time.Since(start), err)
	return err
}

// Absorb folds target together with records, target first, and writes the
// result back onto target. Unlike FoldInto, the provenance of target is left
// as it was.
func Absorb(target *Record, records ...*Record) error {
	return AbsorbWith(target, records)
}

// AbsorbWith is Absorb with options.
func AbsorbWith(target *Record, records []*Record, opts ...Option) error {
	if target == nil {
		return ErrNilTarget
	}
	cfg := applyOptions(opts)
	start := time.Now()
	inputs := append([]*Record{target}, records...)
	result, err := reduce(cfg.multiplyFunc(), inputs)
	err = labelError(cfg.label, err)
	if err == nil && result != nil {
		copyFields(target, result)
	}
	cfg.report("absorb", inputs, result, time.Since(start), err)
	return err
}

// Parts returns the original records folded into r, in document order. The
// slice is a fresh copy but its entries are the caller's own records, so
// changes made through them are visible everywhere. Records that are not fold
// results have no parts.
func Parts(r *Record) []*Record {
	if r == nil || len(r.parts) == 0 {
		return []*Record{}
	}
	return append([]*Record(nil), r.parts...)
}

// ProvenanceOf is an alias of Parts.
func ProvenanceOf(r *Record) []*Record {
	return Parts(r)
}

// IsFold reports whether r carries parts from a previous fold.
func IsFold(r *Record) bool {
	return r != nil && len(r.parts) > 0
}

func fold(cfg foldConfig, records []*Record) (*Record, error) {
	result, err := reduce(cfg.multiplyFunc(), records)
	if err != nil {
		return nil, labelError(cfg.label, err)
	}
	if result == nil {
		return nil, nil
	}
	for _, record := range records {
		if record == result {
			// a custom multiply handed back one of its operands
			result = result.Clone()
			break
		}
	}
	result.parts = collectParts(records)
	return result, nil
}

func reduce(multiply MultiplyFunc, records []*Record) (*Record, error) {
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return multiply(records[0], nil)
	}
	acc := records[0]
	for _, next := range records[1:] {
		merged, err := multiply(acc, next)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// collectParts flattens one level: a fold result contributes its parts, any
// other record contributes itself.
func collectParts(records []*Record) []*Record {
	parts := make([]*Record, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if len(record.parts) > 0 {
			parts = append(parts, record.parts...)
			continue
		}
		parts = append(parts, record)
	}
	return parts
}

func copyFields(target, source *Record) {
	for name, value := range source.All() {
		target.Set(name, value)
	}
}

func (cfg foldConfig) report(operation string, inputs []*Record, result *Record, duration time.Duration, err error) {
	event := FoldLogEvent{
		Operation: operation,
		Label:     cfg.label,
		Inputs:    len(inputs),
		Fields:    result.Len(),
		Duration:  duration,
		Err:       err,
	}
	if result != nil {
		event.Parts = len(result.parts)
	}
	event.HookErr = cfg.emitActivity(event, result)
	cfg.foldLogger().LogFold(event)
}

func fieldPathOf(err error) string {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.FieldPath()
	}
	return ""
}
