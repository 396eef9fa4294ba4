package fractal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpSortDescriptors = cmpopts.SortSlices(func(a, b FieldDescriptor) bool {
	return a.Path < b.Path
})

func TestShapeFlattensNestedRecords(t *testing.T) {
	r := NewRecord().
		Set("name", String("svc")).
		Set("tls", Nested(NewRecord().Set("enabled", Bool(true)).Set("extra", Nested(NewRecord())))).
		Set("ports", Sequence(Int(80))).
		Set("tags", Sequence()).
		Set("owner", Null())

	want := []FieldDescriptor{
		{Path: "name", Type: "string"},
		{Path: "tls.enabled", Type: "bool"},
		{Path: "tls.extra", Type: "record"},
		{Path: "ports", Type: "[]int64"},
		{Path: "tags", Type: "[]any"},
		{Path: "owner", Type: "null"},
	}
	if diff := cmp.Diff(want, Shape(r)); diff != "" {
		t.Fatalf("unexpected shape (-want +got):\n%s", diff)
	}
}

func TestShapeOfEmptyRecord(t *testing.T) {
	if got := Shape(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil shape, got %#v", got)
	}
}

func TestFoldPreservesShape(t *testing.T) {
	a := MustRecord(map[string]any{"k": []any{"a"}, "o": map[string]any{"x": 1}})
	b := MustRecord(map[string]any{"k": []any{"b"}, "o": map[string]any{"x": 2}})

	whole, err := Fold([]*Record{a, b})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if diff := cmp.Diff(Shape(a), Shape(whole)); diff != "" {
		t.Fatalf("fold changed shape (-want +got):\n%s", diff)
	}
}

func TestCheckCompatible(t *testing.T) {
	a := MustRecord(map[string]any{"o": map[string]any{"k": []any{1}}})
	ok := MustRecord(map[string]any{"o": map[string]any{"k": []any{2}, "z": true}})
	bad := MustRecord(map[string]any{"o": map[string]any{"k": "s"}})
	nulls := MustRecord(map[string]any{"o": map[string]any{"k": []any{nil}}})

	if err := CheckCompatible(a, ok); err != nil {
		t.Fatalf("expected compatible, got %v", err)
	}

	err := CheckCompatible(a, bad, WithResultLabel("Config"))
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.FieldPath() != "o.k" || fieldErr.Label != "Config" {
		t.Fatalf("unexpected field error %v", err)
	}

	var invalid *InvalidSequenceError
	if err := CheckCompatible(a, nulls); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSequenceError, got %v", err)
	}
}

func TestCheckCompatibleHonoursStrictScalars(t *testing.T) {
	a := MustRecord(map[string]any{"o": map[string]any{"region": "eu", "env": "prod"}})
	b := MustRecord(map[string]any{"o": map[string]any{"region": "us", "env": "prod"}})

	if err := CheckCompatible(a, b); err != nil {
		t.Fatalf("lenient check should pass, got %v", err)
	}

	err := CheckCompatible(a, b, WithStrictScalars())
	var conflict *ScalarConflictError
	if !errors.As(err, &conflict) || conflict.Field != "region" {
		t.Fatalf("expected ScalarConflictError on region, got %v", err)
	}
	if _, mergeErr := Merge(a, b, WithStrictScalars()); !errors.As(mergeErr, &conflict) {
		t.Fatalf("merge and check disagree: %v", mergeErr)
	}
	if err := CheckCompatible(a, a.Clone(), WithStrictScalars()); err != nil {
		t.Fatalf("equal scalars should pass, got %v", err)
	}
}
