// Package utilmod implements the fixed `util` built-in module: value
// inspection and type predicate helpers.
//
// New relative to the teacher (which has no util module); grounded on the
// reflection-based formatting idiom the teacher's console.go already uses
// for its fallback %+v printing, generalized into a dedicated inspect()
// with depth control plus a set of Node-style `is*` type predicates.
package utilmod

import (
	"fmt"
	"reflect"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "util"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("inspect", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue("undefined")
			}
			depth := 2
			if len(call.Arguments) > 1 && !goja.IsUndefined(call.Arguments[1]) {
				depth = int(call.Arguments[1].ToInteger())
			}
			return rt.ToValue(inspect(call.Arguments[0].Export(), depth))
		})
		obj.Set("format", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue("")
			}
			args := make([]interface{}, len(call.Arguments)-1)
			for i, a := range call.Arguments[1:] {
				args[i] = a.Export()
			}
			return rt.ToValue(fmt.Sprintf(call.Arguments[0].String(), args...))
		})
		obj.Set("isArray", typeCheck(rt, func(v interface{}) bool {
			_, ok := v.([]interface{})
			return ok
		}))
		obj.Set("isObject", typeCheck(rt, func(v interface{}) bool {
			_, ok := v.(map[string]interface{})
			return ok
		}))
		obj.Set("isString", typeCheck(rt, func(v interface{}) bool {
			_, ok := v.(string)
			return ok
		}))
		obj.Set("isNumber", typeCheck(rt, func(v interface{}) bool {
			switch v.(type) {
			case int64, float64, int, int32:
				return true
			}
			return false
		}))
		obj.Set("isBoolean", typeCheck(rt, func(v interface{}) bool {
			_, ok := v.(bool)
			return ok
		}))
		obj.Set("isFunction", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue(false)
			}
			_, ok := goja.AssertFunction(call.Arguments[0])
			return rt.ToValue(ok)
		})
		obj.Set("isNull", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue(false)
			}
			return rt.ToValue(goja.IsNull(call.Arguments[0]))
		})
		obj.Set("isUndefined", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return rt.ToValue(true)
			}
			return rt.ToValue(goja.IsUndefined(call.Arguments[0]))
		})
		return obj, nil
	})
}

func typeCheck(rt *goja.Runtime, pred func(interface{}) bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return rt.ToValue(false)
		}
		return rt.ToValue(pred(call.Arguments[0].Export()))
	}
}

func inspect(v interface{}, depth int) string {
	return inspectValue(reflect.ValueOf(v), depth)
}

func inspectValue(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "null"
	}
	switch v.Kind() {
	case reflect.Map:
		if depth < 0 {
			return "[Object]"
		}
		var b []byte
		b = append(b, '{')
		keys := v.MapKeys()
		for i, k := range keys {
			if i > 0 {
				b = append(b, ',', ' ')
			}
			b = append(b, fmt.Sprintf("%v", k.Interface())...)
			b = append(b, ':', ' ')
			b = append(b, inspectValue(v.MapIndex(k).Elem(), depth-1)...)
		}
		b = append(b, '}')
		return string(b)
	case reflect.Slice, reflect.Array:
		if depth < 0 {
			return "[Array]"
		}
		var b []byte
		b = append(b, '[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b = append(b, ',', ' ')
			}
			b = append(b, inspectValue(v.Index(i).Elem(), depth-1)...)
		}
		b = append(b, ']')
		return string(b)
	case reflect.Interface:
		return inspectValue(v.Elem(), depth)
	case reflect.String:
		return fmt.Sprintf("%q", v.String())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
