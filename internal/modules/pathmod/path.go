// Package pathmod implements the fixed `path` built-in module: pure path
// manipulation, a thin script-facing wrapper over path/filepath.
package pathmod

import (
	"path/filepath"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "path"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("join", func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			return rt.ToValue(filepath.ToSlash(filepath.Join(parts...)))
		})
		obj.Set("dirname", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(filepath.ToSlash(filepath.Dir(strArg(call, 0))))
		})
		obj.Set("basename", func(call goja.FunctionCall) goja.Value {
			base := filepath.Base(strArg(call, 0))
			if len(call.Arguments) > 1 {
				ext := call.Arguments[1].String()
				if len(base) > len(ext) && base[len(base)-len(ext):] == ext {
					base = base[:len(base)-len(ext)]
				}
			}
			return rt.ToValue(base)
		})
		obj.Set("extname", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(filepath.Ext(strArg(call, 0)))
		})
		obj.Set("resolve", func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			joined := filepath.Join(parts...)
			abs, err := filepath.Abs(joined)
			if err != nil {
				bridge.ThrowErr(rt, Name, "resolve", err)
			}
			return rt.ToValue(filepath.ToSlash(abs))
		})
		obj.Set("isAbsolute", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(filepath.IsAbs(strArg(call, 0)))
		})
		obj.Set("sep", string(filepath.Separator))
		return obj, nil
	})
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
