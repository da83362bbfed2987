// Package stringmod implements the fixed `string` (augmented) built-in
// module: split, lines, chars, trim family, starts/ends/contains, pad
// family, repeat, replace/replaceAll, case family.
package stringmod

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "string"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("split", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.Split(strArg(call, 0), strArg(call, 1)))
		})
		obj.Set("lines", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.Split(strArg(call, 0), "\n"))
		})
		obj.Set("chars", func(call goja.FunctionCall) goja.Value {
			s := strArg(call, 0)
			out := make([]string, 0, len(s))
			for _, r := range s {
				out = append(out, string(r))
			}
			return rt.ToValue(out)
		})
		obj.Set("trim", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.TrimSpace(strArg(call, 0)))
		})
		obj.Set("trimStart", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.TrimLeft(strArg(call, 0), " \t\n\r"))
		})
		obj.Set("trimEnd", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.TrimRight(strArg(call, 0), " \t\n\r"))
		})
		obj.Set("startsWith", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.HasPrefix(strArg(call, 0), strArg(call, 1)))
		})
		obj.Set("endsWith", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.HasSuffix(strArg(call, 0), strArg(call, 1)))
		})
		obj.Set("contains", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.Contains(strArg(call, 0), strArg(call, 1)))
		})
		obj.Set("padStart", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(pad(strArg(call, 0), int(call.Arguments[1].ToInteger()), padCh(call), true))
		})
		obj.Set("padEnd", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(pad(strArg(call, 0), int(call.Arguments[1].ToInteger()), padCh(call), false))
		})
		obj.Set("repeat", func(call goja.FunctionCall) goja.Value {
			n := int(call.Arguments[1].ToInteger())
			if n < 0 {
				bridge.Throw(rt, herrors.KindValidationError, "string.repeat: count must be non-negative")
			}
			return rt.ToValue(strings.Repeat(strArg(call, 0), n))
		})
		obj.Set("replace", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.Replace(strArg(call, 0), strArg(call, 1), strArg(call, 2), 1))
		})
		obj.Set("replaceAll", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.ReplaceAll(strArg(call, 0), strArg(call, 1), strArg(call, 2)))
		})
		obj.Set("toUpperCase", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.ToUpper(strArg(call, 0)))
		})
		obj.Set("toLowerCase", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(strings.ToLower(strArg(call, 0)))
		})
		return obj, nil
	})
}

func pad(s string, length int, ch string, start bool) string {
	if ch == "" {
		ch = " "
	}
	for len([]rune(s)) < length {
		if start {
			s = ch + s
		} else {
			s = s + ch
		}
	}
	return s
}

func padCh(call goja.FunctionCall) string {
	if len(call.Arguments) > 2 {
		return call.Arguments[2].String()
	}
	return " "
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
