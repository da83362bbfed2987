// Package eventsmod implements the fixed `events` built-in module: a
// Node.js-style EventEmitter.
//
// Grounded on the EventEmitter interface consumed by the teacher's
// internal/modules/stream package (stream.go's `events EventEmitter` field
// and bridge.go's JSEventEmitter wrapper), generalized here from an
// internal stream-only helper into a standalone script-facing constructor
// so scripts can build their own emitters via require("events").
package eventsmod

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "events"

type listener struct {
	raw goja.Value
	fn  goja.Callable
}

type emitter struct {
	mu        sync.Mutex
	listeners map[string][]listener
	once      map[string]map[int]bool
}

func newEmitter() *emitter {
	return &emitter{
		listeners: make(map[string][]listener),
		once:      make(map[string]map[int]bool),
	}
}

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		module := rt.NewObject()
		module.Set("EventEmitter", func(call goja.ConstructorCall) *goja.Object {
			return newEmitterInstance(rt, call.This)
		})
		return module, nil
	})
}

func newEmitterInstance(rt *goja.Runtime, obj *goja.Object) *goja.Object {
	e := newEmitter()

	obj.Set("on", func(call goja.FunctionCall) goja.Value {
		addListener(rt, e, call, false)
		return obj
	})
	obj.Set("addListener", func(call goja.FunctionCall) goja.Value {
		addListener(rt, e, call, false)
		return obj
	})
	obj.Set("once", func(call goja.FunctionCall) goja.Value {
		addListener(rt, e, call, true)
		return obj
	})
	obj.Set("off", func(call goja.FunctionCall) goja.Value {
		removeListener(e, call)
		return obj
	})
	obj.Set("removeListener", func(call goja.FunctionCall) goja.Value {
		removeListener(e, call)
		return obj
	})
	obj.Set("removeAllListeners", func(call goja.FunctionCall) goja.Value {
		e.mu.Lock()
		defer e.mu.Unlock()
		if len(call.Arguments) == 0 {
			e.listeners = make(map[string][]listener)
			e.once = make(map[string]map[int]bool)
		} else {
			name := call.Arguments[0].String()
			delete(e.listeners, name)
			delete(e.once, name)
		}
		return obj
	})
	obj.Set("emit", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return rt.ToValue(false)
		}
		name := call.Arguments[0].String()
		args := call.Arguments[1:]

		e.mu.Lock()
		handlers := append([]listener(nil), e.listeners[name]...)
		onceSet := e.once[name]
		e.mu.Unlock()

		if len(handlers) == 0 {
			return rt.ToValue(false)
		}
		for i, h := range handlers {
			h.fn(goja.Undefined(), args...)
			if onceSet != nil && onceSet[i] {
				removeAt(e, name, i)
			}
		}
		return rt.ToValue(true)
	})
	obj.Set("listenerCount", func(call goja.FunctionCall) goja.Value {
		name := call.Arguments[0].String()
		e.mu.Lock()
		defer e.mu.Unlock()
		return rt.ToValue(len(e.listeners[name]))
	})
	obj.Set("eventNames", func(call goja.FunctionCall) goja.Value {
		e.mu.Lock()
		defer e.mu.Unlock()
		names := make([]string, 0, len(e.listeners))
		for name := range e.listeners {
			names = append(names, name)
		}
		return rt.ToValue(names)
	})
	return obj
}

func addListener(rt *goja.Runtime, e *emitter, call goja.FunctionCall, isOnce bool) {
	name := call.Arguments[0].String()
	raw := call.Arguments[1]
	fn, ok := goja.AssertFunction(raw)
	if !ok {
		bridge.Throw(rt, herrors.KindValidationError, "events: listener must be a function")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := len(e.listeners[name])
	e.listeners[name] = append(e.listeners[name], listener{raw: raw, fn: fn})
	if isOnce {
		if e.once[name] == nil {
			e.once[name] = make(map[int]bool)
		}
		e.once[name][idx] = true
	}
}

func removeListener(e *emitter, call goja.FunctionCall) {
	name := call.Arguments[0].String()
	raw := call.Arguments[1]
	e.mu.Lock()
	defer e.mu.Unlock()
	handlers := e.listeners[name]
	for i := range handlers {
		if handlers[i].raw.Equals(raw) {
			e.listeners[name] = append(handlers[:i], handlers[i+1:]...)
			delete(e.once[name], i)
			return
		}
	}
}

func removeAt(e *emitter, name string, idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	handlers := e.listeners[name]
	if idx >= len(handlers) {
		return
	}
	e.listeners[name] = append(handlers[:idx], handlers[idx+1:]...)
	delete(e.once[name], idx)
}
