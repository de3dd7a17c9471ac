package pgraph

import (
	"fmt"
	"reflect"

	"github.com/funvibe/pgraph/internal/evaluator"
)

// Marshaller handles conversion between Go and program graph values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()

// ToValue converts a Go value to a runtime Object.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.VOID, nil
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return evaluator.VOID, nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return evaluator.NewByteArray(v.Bytes()), nil
		}
		return m.sliceToArray(v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.VOID, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// FromValue converts a runtime Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}

	// If target type is evaluator.Object, return as is
	if targetType != nil && targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Integer:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32, reflect.Float64:
				return reflect.ValueOf(o.Value).Convert(targetType).Interface(), nil
			}
		}
		return o.Value, nil
	case *evaluator.Float:
		if targetType != nil && targetType.Kind() == reflect.Float32 {
			return float32(o.Value), nil
		}
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Array:
		if targetType != nil && targetType.Kind() == reflect.Slice && targetType.Elem().Kind() == reflect.Uint8 {
			return evaluator.ToBytes(o)
		}
		return m.arrayToSlice(o, targetType)
	case *evaluator.Void:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", evaluator.KindName(obj))
}

func (m *Marshaller) sliceToArray(v reflect.Value) (*evaluator.Array, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return &evaluator.Array{Elements: elements}, nil
}

func (m *Marshaller) arrayToSlice(a *evaluator.Array, targetType reflect.Type) (interface{}, error) {
	// If targetType is nil, default to []interface{}
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(a.Elements))
	for i, el := range a.Elements {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		rv, err := assignable(val, elemType)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

// assignable wraps val as a reflect.Value of type t, converting when the
// types differ but are convertible.
func assignable(val interface{}, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use void as %s", t)
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	// Numbers never convert to strings.
	if rv.Type().ConvertibleTo(t) && (rv.Kind() == reflect.String) == (t.Kind() == reflect.String) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
}
