// Package bridge is the host-module bridge machinery described in spec
// §4.6: the factory-registration table built-in modules are installed
// through, and the marshaling helpers shared by every built-in module.
//
// Grounded on the teacher's internal/plugins/bridge.go WrapPlugin idiom
// (build a plain JS object, set each exported value directly, let goja's
// automatic Go<->JS conversion handle the rest), generalized from "wrap one
// native plugin" to "wrap any built-in module factory's exports."
package bridge

import (
	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/herrors"
)

// Factory constructs a built-in module's exports value given a reference to
// the interpreter. It is invoked at most once per session per module name,
// by the loader, on a cache miss in the registry.
type Factory func(rt *goja.Runtime) (goja.Value, error)

// Registry holds the fixed set of built-in module factories, keyed by the
// stable name the resolver consults.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under name. Re-registering a name overwrites the
// previous factory (used by tests to stub built-ins).
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the set of registered built-in names, for the resolver's
// built-in table lookup.
func (r *Registry) Names() map[string]bool {
	out := make(map[string]bool, len(r.factories))
	for name := range r.factories {
		out[name] = true
	}
	return out
}

// Build invokes the named factory, wrapping any failure as a HostModuleError
// with op "init" (message "<name>.init: ...").
func (r *Registry) Build(name string, rt *goja.Runtime) (goja.Value, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, herrors.New(herrors.KindModuleNotFound, "no built-in module registered under %q", name)
	}
	exports, err := f(rt)
	if err != nil {
		return nil, herrors.HostModuleError(name, "init", err)
	}
	return exports, nil
}

// NewObject is a small convenience used by every factory to build an
// exports object and populate it with host-backed callables and values.
func NewObject(rt *goja.Runtime, fields map[string]interface{}) *goja.Object {
	obj := rt.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return obj
}

// Throw raises a script-language error carrying kind and message, per the
// marshaling rule that host errors propagate as catchable script errors.
func Throw(rt *goja.Runtime, kind herrors.Kind, format string, args ...interface{}) {
	he := herrors.New(kind, format, args...)
	panic(rt.NewGoError(he))
}

// ThrowErr wraps an existing Go error as a HostModuleError for module/op and
// raises it as a script-language exception.
func ThrowErr(rt *goja.Runtime, module, op string, err error) {
	panic(rt.NewGoError(herrors.HostModuleError(module, op, err)))
}
