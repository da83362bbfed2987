// Package querystringmod implements the fixed `querystring` built-in
// module: parsing and stringifying query strings.
package querystringmod

import (
	"net/url"
	"sort"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "querystring"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("parse", func(call goja.FunctionCall) goja.Value {
			values, err := url.ParseQuery(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "parse", err)
			}
			out := rt.NewObject()
			for k, v := range values {
				if len(v) == 1 {
					out.Set(k, v[0])
				} else {
					out.Set(k, v)
				}
			}
			return out
		})
		obj.Set("stringify", func(call goja.FunctionCall) goja.Value {
			obj := call.Arguments[0].ToObject(rt)
			values := url.Values{}
			keys := obj.Keys()
			sort.Strings(keys)
			for _, k := range keys {
				v := obj.Get(k)
				if v == nil || goja.IsUndefined(v) {
					continue
				}
				values.Set(k, v.String())
			}
			return rt.ToValue(values.Encode())
		})
		return obj, nil
	})
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
