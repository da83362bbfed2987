// Package loader implements the module loader of spec §4.2: given a
// resolver.Location it produces an exports value, by invoking a built-in
// factory, compiling and executing a script file in a CommonJS module
// wrapper, or loading a native plugin.
//
// The CommonJS wrapper idiom here is grounded on the teacher's
// internal/runtime/module_resolver.go executeModule: wrap the source in
// `(function(exports, require, module, __filename, __dirname) {...})`,
// compile and run it, then pull the function out via an exported Go value
// and call it directly, rather than keeping the wrapper expression's
// returned value as the module's exports.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/plugins"
	"github.com/rizqme/hype/internal/resolver"
)

// RequireFunc is the signature of the enriched require closure the host
// installs; the loader calls back into it to build a module-local require
// bound to the module's own directory.
type RequireFunc func(specifier, fromDir string) (goja.Value, error)

// Loader executes resolved locations and returns their exports value.
type Loader struct {
	Runtime  *goja.Runtime
	Builtins *bridge.Registry
	Plugins  *plugins.Registry
	Require  RequireFunc
}

// Load dispatches on loc.Kind.
func (l *Loader) Load(loc resolver.Location) (goja.Value, error) {
	switch loc.Kind {
	case resolver.KindBuiltin:
		return l.Builtins.Build(loc.Name, l.Runtime)
	case resolver.KindPlugin:
		return l.loadPlugin(loc.Path)
	default:
		return l.loadScriptFile(loc.Path)
	}
}

func (l *Loader) loadPlugin(path string) (goja.Value, error) {
	obj, err := l.Plugins.LoadPlugin(path)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "loading plugin %s", path)
	}
	return obj, nil
}

const moduleWrapperTemplate = "(function(exports, require, module, __filename, __dirname) {\n%s\n return (typeof module !== 'undefined' && module.exports !== undefined) ? module.exports : exports;\n})"

func (l *Loader) loadScriptFile(path string) (goja.Value, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindIoError, err, "reading %s", path)
	}

	wrapped := fmt.Sprintf(moduleWrapperTemplate, string(source))
	program, err := goja.Compile(path, wrapped, false)
	if err != nil {
		return nil, compileError(path, err)
	}

	wrapperVal, err := l.Runtime.RunProgram(program)
	if err != nil {
		return nil, executionError(path, err)
	}
	wrapperFn, ok := goja.AssertFunction(wrapperVal)
	if !ok {
		return nil, herrors.New(herrors.KindModuleCompileError, "%s: module wrapper did not evaluate to a function", path)
	}

	moduleObj := l.Runtime.NewObject()
	exportsObj := l.Runtime.NewObject()
	moduleObj.Set("exports", exportsObj)
	dir := filepath.Dir(path)

	requireFn := l.Runtime.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(l.Runtime.NewTypeError("require requires a module specifier"))
		}
		specifier := call.Arguments[0].String()
		val, err := l.Require(specifier, dir)
		if err != nil {
			panic(l.Runtime.NewGoError(err))
		}
		return val
	})

	result, err := wrapperFn(goja.Undefined(), exportsObj, requireFn, moduleObj, l.Runtime.ToValue(path), l.Runtime.ToValue(dir))
	if err != nil {
		return nil, executionError(path, err)
	}
	return result, nil
}

func compileError(path string, err error) error {
	if exc, ok := err.(*goja.Exception); ok {
		return herrors.New(herrors.KindModuleCompileError, "%s: %s", path, exc.Error())
	}
	return herrors.Wrap(herrors.KindModuleCompileError, err, "%s", path)
}

func executionError(path string, err error) error {
	if exc, ok := err.(*goja.Exception); ok {
		return herrors.Wrap(herrors.KindModuleExecutionError, err, "%s: %s", path, exc.Error())
	}
	return herrors.Wrap(herrors.KindModuleExecutionError, err, "%s", path)
}
