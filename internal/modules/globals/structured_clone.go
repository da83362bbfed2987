package globals

import (
	"encoding/json"
	"reflect"

	"github.com/rizqme/hype/internal/herrors"
)

// StructuredClone implements the script-visible structuredClone(): a deep
// copy of primitives, slices, maps, structs and pointers. Functions,
// channels and interfaces cannot be cloned and return an error, matching
// the Web API's DataCloneError for non-serializable values.
func StructuredClone(value interface{}) (interface{}, error) {
	return cloneValue(value, map[uintptr]bool{})
}

func cloneValue(value interface{}, seen map[uintptr]bool) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return value, nil

	case reflect.Slice, reflect.Array:
		length := v.Len()
		result := reflect.MakeSlice(v.Type(), length, length)
		for i := 0; i < length; i++ {
			cloned, err := cloneValue(v.Index(i).Interface(), seen)
			if err != nil {
				return nil, err
			}
			elem := reflect.Zero(v.Type().Elem())
			if cloned != nil {
				elem = reflect.ValueOf(cloned)
			}
			result.Index(i).Set(elem)
		}
		return result.Interface(), nil

	case reflect.Map:
		result := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			clonedKey, err := cloneValue(key.Interface(), seen)
			if err != nil {
				return nil, err
			}
			clonedValue, err := cloneValue(v.MapIndex(key).Interface(), seen)
			if err != nil {
				return nil, err
			}
			elem := reflect.Zero(v.Type().Elem())
			if clonedValue != nil {
				elem = reflect.ValueOf(clonedValue)
			}
			result.SetMapIndex(reflect.ValueOf(clonedKey), elem)
		}
		return result.Interface(), nil

	case reflect.Struct:
		return cloneViaJSON(value, v.Type())

	case reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		addr := v.Pointer()
		if seen[addr] {
			return nil, herrors.New(herrors.KindValidationError, "structuredClone: circular reference is not cloneable")
		}
		seen[addr] = true

		cloned, err := cloneValue(v.Elem().Interface(), seen)
		if err != nil {
			return nil, err
		}
		result := reflect.New(v.Elem().Type())
		result.Elem().Set(reflect.ValueOf(cloned))
		return result.Interface(), nil

	case reflect.Func, reflect.Chan, reflect.Interface:
		return nil, herrors.New(herrors.KindValidationError, "structuredClone: functions, channels, and interfaces are not cloneable")

	default:
		return nil, herrors.New(herrors.KindValidationError, "structuredClone: value of kind %s is not cloneable", v.Kind())
	}
}

// cloneViaJSON round-trips a struct through JSON, the simplest way to deep
// copy nested struct fields without hand-walking reflect.StructField.
func cloneViaJSON(value interface{}, t reflect.Type) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindValidationError, err, "structuredClone: cannot clone value")
	}
	result := reflect.New(t).Interface()
	if err := json.Unmarshal(data, result); err != nil {
		return nil, herrors.Wrap(herrors.KindValidationError, err, "structuredClone: cannot clone value")
	}
	return reflect.ValueOf(result).Elem().Interface(), nil
}
