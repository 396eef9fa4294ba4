// Package fractal merges records of the same shape and remembers where the
// result came from.
//
// A Record is an ordered set of named Values. Merge combines two records
// field by field: sequences concatenate, nested records merge recursively and
// scalars of the same type resolve to the second operand. Fold reduces a list
// of records from left to right with Merge (or a custom MultiplyFunc) and
// attaches the original records to the result as its parts:
//
//	whole, err := fractal.Fold([]*fractal.Record{defaults, site, local})
//	for _, part := range fractal.Parts(whole) {
//		// part is the caller's own record, not a copy
//	}
//
// Parts are flattened: folding a fold result splices its parts into the new
// list instead of nesting it. They never appear among the record's fields or
// in its JSON form.
//
// TracePath reports which parts define a field, Select filters parts with an
// expr or CEL predicate, and Decode hydrates a folded record into a struct.
// The codec package reads records from YAML, JSON and TOML documents in
// document order.
package fractal
