// Package jsonmod implements the fixed `json` built-in module. The teacher
// hand-rolls recursive stringify/parse helpers in internal/runtime/runtime.go
// (jsonStringify/jsonParse); those duplicate what encoding/json already does
// correctly and have known gaps (e.g. uneven handling of nested
// arrays-of-objects), so this module goes straight to encoding/json instead,
// converting through goja's Export()/ToValue() for the value <-> interface{}
// boundary.
package jsonmod

import (
	"encoding/json"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "json"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("encode", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				bridge.Throw(rt, herrors.KindValidationError, "json.encode requires a value")
			}
			native := call.Arguments[0].Export()
			pretty := len(call.Arguments) > 1 && call.Arguments[1].ToBoolean()
			var data []byte
			var err error
			if pretty {
				data, err = json.MarshalIndent(native, "", "  ")
			} else {
				data, err = json.Marshal(native)
			}
			if err != nil {
				bridge.ThrowErr(rt, Name, "encode", err)
			}
			return rt.ToValue(string(data))
		})
		obj.Set("decode", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				bridge.Throw(rt, herrors.KindValidationError, "json.decode requires a string")
			}
			var out interface{}
			if err := json.Unmarshal([]byte(call.Arguments[0].String()), &out); err != nil {
				bridge.ThrowErr(rt, Name, "decode", err)
			}
			return rt.ToValue(out)
		})
		return obj, nil
	})
}
