// Package globals implements the fixed script-visible globals beyond
// require/module/exports/console/process (those are installed directly by
// internal/host, since they need access to the host's resolver, registry
// and env policy): Buffer, URL/URLSearchParams, TextEncoder/TextDecoder,
// btoa/atob, and structuredClone.
//
// Grounded on the teacher's internal/modules/globals package: buffer.go,
// url.go, text_encoding.go, base64.go, and structured_clone.go keep the
// teacher's overall data shapes but are rebuilt to route validation errors
// through internal/herrors and to use stdlib-idiomatic helpers (sort.Slice,
// a normalized-encoding table, coerceByte) in place of the teacher's
// bubble sort and duplicated type-switch blocks. Install replaces the
// teacher's register.go,
// which built these through a forked-goja RuntimeInterface abstraction
// (SetGlobal/QueueJSOperation) and string-eval JS wrapper shims; this
// version wires the same Go types directly into a stock *goja.Runtime
// using explicit camelCase Set calls, in the same style as the other
// internal/modules/* built-ins. The teacher's process.go, console.go and
// timers_extended.go are dropped: process/console are superseded by
// internal/host's globals, and timers_extended's setImmediate/
// queueMicrotask have no place in a single-threaded, no-event-loop runtime.
package globals

import (
	"github.com/dop251/goja"
)

// Install registers Buffer, URL, URLSearchParams, TextEncoder, TextDecoder,
// btoa, atob and structuredClone as globals on rt.
func Install(rt *goja.Runtime) error {
	installBuffer(rt)
	installURL(rt)
	installTextCoding(rt)
	installBase64(rt)
	installStructuredClone(rt)
	return nil
}

func installBuffer(rt *goja.Runtime) {
	ctor := &BufferConstructor{}
	bufferCtor := func(call goja.ConstructorCall) *goja.Object {
		var buf *Buffer
		if len(call.Arguments) > 0 {
			if n, ok := call.Arguments[0].Export().(int64); ok {
				var fill interface{}
				if len(call.Arguments) > 1 {
					fill = call.Arguments[1].Export()
				}
				buf = ctor.Alloc(int(n), fill)
			} else {
				var enc []string
				if len(call.Arguments) > 1 {
					enc = []string{call.Arguments[1].String()}
				}
				var err error
				buf, err = ctor.From(call.Arguments[0].Export(), enc...)
				if err != nil {
					panic(rt.NewTypeError(err.Error()))
				}
			}
		} else {
			buf = ctor.Alloc(0)
		}
		return wrapBuffer(rt, buf, call.This)
	}
	bufferFunc := rt.ToValue(bufferCtor).ToObject(rt)
	bufferFunc.Set("alloc", func(call goja.FunctionCall) goja.Value {
		size := int(call.Arguments[0].ToInteger())
		var fill interface{}
		if len(call.Arguments) > 1 {
			fill = call.Arguments[1].Export()
		}
		return rt.ToValue(wrapBuffer(rt, ctor.Alloc(size, fill), nil))
	})
	bufferFunc.Set("allocUnsafe", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(wrapBuffer(rt, ctor.AllocUnsafe(int(call.Arguments[0].ToInteger())), nil))
	})
	bufferFunc.Set("from", func(call goja.FunctionCall) goja.Value {
		var enc []string
		if len(call.Arguments) > 1 {
			enc = []string{call.Arguments[1].String()}
		}
		buf, err := ctor.From(call.Arguments[0].Export(), enc...)
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		return rt.ToValue(wrapBuffer(rt, buf, nil))
	})
	bufferFunc.Set("concat", func(call goja.FunctionCall) goja.Value {
		items, _ := call.Arguments[0].Export().([]interface{})
		list := make([]*Buffer, 0, len(items))
		for _, it := range items {
			if b, ok := it.(*Buffer); ok {
				list = append(list, b)
			}
		}
		var totalLength []int
		if len(call.Arguments) > 1 {
			totalLength = []int{int(call.Arguments[1].ToInteger())}
		}
		return rt.ToValue(wrapBuffer(rt, ctor.Concat(list, totalLength...), nil))
	})
	bufferFunc.Set("isBuffer", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(ctor.IsBuffer(call.Arguments[0].Export()))
	})
	bufferFunc.Set("byteLength", func(call goja.FunctionCall) goja.Value {
		var enc []string
		if len(call.Arguments) > 1 {
			enc = []string{call.Arguments[1].String()}
		}
		return rt.ToValue(ctor.ByteLength(call.Arguments[0].String(), enc...))
	})
	rt.Set("Buffer", bufferFunc)
}

func wrapBuffer(rt *goja.Runtime, buf *Buffer, this *goja.Object) *goja.Object {
	obj := this
	if obj == nil {
		obj = rt.NewObject()
	}
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		enc := "utf8"
		if len(call.Arguments) > 0 {
			enc = call.Arguments[0].String()
		}
		return rt.ToValue(buf.ToString(enc))
	})
	obj.Set("length", buf.Length())
	obj.Set("fill", func(call goja.FunctionCall) goja.Value {
		start := make([]int, 0, 2)
		for _, a := range call.Arguments[1:] {
			start = append(start, int(a.ToInteger()))
		}
		buf.Fill(call.Arguments[0].Export(), start...)
		return obj
	})
	obj.Set("slice", func(call goja.FunctionCall) goja.Value {
		start := make([]int, 0, 2)
		for _, a := range call.Arguments {
			start = append(start, int(a.ToInteger()))
		}
		return rt.ToValue(wrapBuffer(rt, buf.Slice(start...), nil))
	})
	obj.Set("indexOf", func(call goja.FunctionCall) goja.Value {
		var offset []int
		if len(call.Arguments) > 1 {
			offset = []int{int(call.Arguments[1].ToInteger())}
		}
		return rt.ToValue(buf.IndexOf(call.Arguments[0].Export(), offset...))
	})
	obj.Set("equals", func(call goja.FunctionCall) goja.Value {
		other, _ := call.Arguments[0].Export().(*Buffer)
		return rt.ToValue(buf.Equals(other))
	})
	obj.Set("__buffer", buf)
	return obj
}

func installURL(rt *goja.Runtime) {
	ctor := &URLConstructor{}
	urlFunc := func(call goja.ConstructorCall) *goja.Object {
		var base []string
		if len(call.Arguments) > 1 {
			base = []string{call.Arguments[1].String()}
		}
		u, err := ctor.New(call.Arguments[0].String(), base...)
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		return wrapURL(rt, u, call.This)
	}
	rt.Set("URL", rt.ToValue(urlFunc))

	rt.Set("URLSearchParams", rt.ToValue(func(call goja.ConstructorCall) *goja.Object {
		var init string
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
			init = call.Arguments[0].String()
		}
		usp := NewURLSearchParams(init)
		return wrapSearchParams(rt, usp, call.This)
	}))
}

func wrapURL(rt *goja.Runtime, u *URL, this *goja.Object) *goja.Object {
	obj := this
	if obj == nil {
		obj = rt.NewObject()
	}
	obj.Set("href", u.Href())
	obj.Set("origin", u.Origin())
	obj.Set("protocol", u.Protocol())
	obj.Set("username", u.Username())
	obj.Set("password", u.Password())
	obj.Set("host", u.Host())
	obj.Set("hostname", u.Hostname())
	obj.Set("port", u.Port())
	obj.Set("pathname", u.Pathname())
	obj.Set("search", u.Search())
	obj.Set("hash", u.Hash())
	obj.Set("searchParams", wrapSearchParams(rt, u.SearchParams(), nil))
	obj.Set("toString", func(goja.FunctionCall) goja.Value { return rt.ToValue(u.ToString()) })
	obj.Set("toJSON", func(goja.FunctionCall) goja.Value { return rt.ToValue(u.ToJSON()) })
	return obj
}

func wrapSearchParams(rt *goja.Runtime, usp *URLSearchParams, this *goja.Object) *goja.Object {
	obj := this
	if obj == nil {
		obj = rt.NewObject()
	}
	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(usp.Get(call.Arguments[0].String()))
	})
	obj.Set("getAll", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(usp.GetAll(call.Arguments[0].String()))
	})
	obj.Set("has", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(usp.Has(call.Arguments[0].String()))
	})
	obj.Set("set", func(call goja.FunctionCall) goja.Value {
		usp.Set(call.Arguments[0].String(), call.Arguments[1].String())
		return goja.Undefined()
	})
	obj.Set("append", func(call goja.FunctionCall) goja.Value {
		usp.Append(call.Arguments[0].String(), call.Arguments[1].String())
		return goja.Undefined()
	})
	obj.Set("delete", func(call goja.FunctionCall) goja.Value {
		usp.Delete(call.Arguments[0].String())
		return goja.Undefined()
	})
	obj.Set("sort", func(call goja.FunctionCall) goja.Value {
		usp.Sort()
		return goja.Undefined()
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(usp.ToString())
	})
	obj.Set("keys", func(call goja.FunctionCall) goja.Value { return rt.ToValue(usp.Keys()) })
	obj.Set("values", func(call goja.FunctionCall) goja.Value { return rt.ToValue(usp.Values()) })
	obj.Set("entries", func(call goja.FunctionCall) goja.Value { return rt.ToValue(usp.Entries()) })
	return obj
}

func installTextCoding(rt *goja.Runtime) {
	encCtor := &TextEncoderConstructor{}
	rt.Set("TextEncoder", rt.ToValue(func(call goja.ConstructorCall) *goja.Object {
		enc := encCtor.New()
		obj := call.This
		obj.Set("encoding", enc.Encoding())
		obj.Set("encode", func(c goja.FunctionCall) goja.Value {
			return rt.ToValue(enc.Encode(c.Arguments[0].String()))
		})
		obj.Set("encodeInto", func(c goja.FunctionCall) goja.Value {
			dest, _ := c.Arguments[1].Export().([]byte)
			return rt.ToValue(enc.EncodeInto(c.Arguments[0].String(), dest))
		})
		return obj
	}))

	decCtor := &TextDecoderConstructor{}
	rt.Set("TextDecoder", rt.ToValue(func(call goja.ConstructorCall) *goja.Object {
		label := "utf-8"
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
			label = call.Arguments[0].String()
		}
		dec, err := decCtor.New(label)
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		obj := call.This
		obj.Set("encoding", dec.Encoding())
		obj.Set("fatal", dec.Fatal())
		obj.Set("ignoreBOM", dec.IgnoreBOM())
		obj.Set("decode", func(c goja.FunctionCall) goja.Value {
			input, _ := c.Arguments[0].Export().([]byte)
			out, err := dec.Decode(input)
			if err != nil {
				panic(rt.NewTypeError(err.Error()))
			}
			return rt.ToValue(out)
		})
		return obj
	}))
}

func installBase64(rt *goja.Runtime) {
	rt.Set("btoa", func(call goja.FunctionCall) goja.Value {
		out, err := Btoa(call.Arguments[0].String())
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		return rt.ToValue(out)
	})
	rt.Set("atob", func(call goja.FunctionCall) goja.Value {
		out, err := Atob(call.Arguments[0].String())
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		return rt.ToValue(out)
	})
}

func installStructuredClone(rt *goja.Runtime) {
	rt.Set("structuredClone", func(call goja.FunctionCall) goja.Value {
		var v interface{}
		if len(call.Arguments) > 0 {
			v = call.Arguments[0].Export()
		}
		cloned, err := StructuredClone(v)
		if err != nil {
			panic(rt.NewTypeError(err.Error()))
		}
		return rt.ToValue(cloned)
	})
}
