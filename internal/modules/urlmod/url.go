// Package urlmod implements the fixed `url` built-in module: URL parsing,
// formatting, resolution and percent-encoding. Distinct from the global
// `URL`/`URLSearchParams` constructors (SPEC_FULL.md §9.1), which remain
// ambient globals per the teacher's convention; this is the `require`'d
// module form spec.md's built-in table names.
package urlmod

import (
	"net/url"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "url"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("parse", func(call goja.FunctionCall) goja.Value {
			u, err := url.Parse(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "parse", err)
			}
			return rt.ToValue(toObject(rt, u))
		})
		obj.Set("format", func(call goja.FunctionCall) goja.Value {
			parts := call.Arguments[0].ToObject(rt)
			u := &url.URL{
				Scheme:   getStr(rt, parts, "scheme"),
				Host:     getStr(rt, parts, "host"),
				Path:     getStr(rt, parts, "path"),
				RawQuery: getStr(rt, parts, "query"),
				Fragment: getStr(rt, parts, "fragment"),
			}
			return rt.ToValue(u.String())
		})
		obj.Set("resolve", func(call goja.FunctionCall) goja.Value {
			base, err := url.Parse(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "resolve", err)
			}
			ref, err := url.Parse(strArg(call, 1))
			if err != nil {
				bridge.ThrowErr(rt, Name, "resolve", err)
			}
			return rt.ToValue(base.ResolveReference(ref).String())
		})
		obj.Set("encode", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(url.QueryEscape(strArg(call, 0)))
		})
		obj.Set("decode", func(call goja.FunctionCall) goja.Value {
			out, err := url.QueryUnescape(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "decode", err)
			}
			return rt.ToValue(out)
		})
		return obj, nil
	})
}

func toObject(rt *goja.Runtime, u *url.URL) *goja.Object {
	o := rt.NewObject()
	o.Set("scheme", u.Scheme)
	o.Set("host", u.Host)
	o.Set("hostname", u.Hostname())
	o.Set("port", u.Port())
	o.Set("path", u.Path)
	o.Set("query", u.RawQuery)
	o.Set("fragment", u.Fragment)
	if u.User != nil {
		o.Set("username", u.User.Username())
		pass, _ := u.User.Password()
		o.Set("password", pass)
	}
	return o
}

func getStr(rt *goja.Runtime, obj *goja.Object, key string) string {
	v := obj.Get(key)
	if v == nil || goja.IsUndefined(v) {
		return ""
	}
	return v.String()
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
