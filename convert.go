package fractal

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	recordType = reflect.TypeOf((*Record)(nil))
	valueType  = reflect.TypeOf(Value{})
)

// ValueOf converts plain Go data into a Value. Maps become records with their
// keys sorted, structs become records in field declaration order (honouring
// json tag names and "-"), slices and arrays become sequences, nil becomes
// Null and every other leaf, including time.Time, becomes a scalar.
func ValueOf(v any) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	return valueOf(reflect.ValueOf(v))
}

// RecordOf converts a map or struct into a record.
func RecordOf(v any) (*Record, error) {
	value, err := ValueOf(v)
	if err != nil {
		return nil, err
	}
	if value.Kind() != KindRecord {
		return nil, fmt.Errorf("fractal: cannot build a record from %T", v)
	}
	return value.Record(), nil
}

// MustRecord is RecordOf for literals in tests and examples. It panics on error.
func MustRecord(v any) *Record {
	r, err := RecordOf(v)
	if err != nil {
		panic(err)
	}
	return r
}

func valueOf(v reflect.Value) (Value, error) {
	if !v.IsValid() {
		return Null(), nil
	}

	switch v.Type() {
	case valueType:
		return v.Interface().(Value), nil
	case recordType:
		return Nested(v.Interface().(*Record)), nil
	case timeType:
		return Scalar(v.Interface()), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return Null(), nil
		}
		return valueOf(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return Null(), nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("fractal: map key type %s is not a string", v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		slices.Sort(keys)
		record := NewRecord()
		for _, key := range keys {
			field, err := valueOf(v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())))
			if err != nil {
				return Value{}, wrapFieldError(key, err)
			}
			record.Set(key, field)
		}
		return Nested(record), nil
	case reflect.Struct:
		record := NewRecord()
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, skip := fieldName(sf)
			if skip {
				continue
			}
			field, err := valueOf(v.Field(i))
			if err != nil {
				return Value{}, wrapFieldError(name, err)
			}
			record.Set(name, field)
		}
		return Nested(record), nil
	case reflect.Slice:
		if v.IsNil() {
			return Null(), nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(v.Interface()), nil
		}
		return sequenceOf(v)
	case reflect.Array:
		return sequenceOf(v)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Value{}, fmt.Errorf("fractal: unsupported value of kind %s", v.Kind())
	default:
		return Scalar(v.Interface()), nil
	}
}

func sequenceOf(v reflect.Value) (Value, error) {
	items := make([]Value, v.Len())
	for i := 0; i < v.Len(); i++ {
		item, err := valueOf(v.Index(i))
		if err != nil {
			return Value{}, err
		}
		items[i] = item
	}
	return Value{kind: KindSequence, items: items}, nil
}

func fieldName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return sf.Name, false
	}
	return name, false
}
