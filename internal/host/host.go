// Package host implements the Interpreter Host of spec §4.5: owns the
// single interpreter instance, installs the enriched globals, applies
// sandbox configuration, executes the top-level script, and translates
// interpreter-level failures into typed errors.
//
// Grounded on the teacher's internal/runtime/runtime.go (New, setupGlobals,
// Configure, Run, createModuleErrorFromJS). The teacher's vmQueue/eventLoop
// goroutine+channel pattern is kept here only as an internal thread-safety
// shim (see SPEC_FULL.md §5) — it is never exposed to script code as a
// scheduling primitive, and no script-visible API (setTimeout and friends)
// is installed through it.
package host

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"time"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/loader"
	"github.com/rizqme/hype/internal/manifest"
	"github.com/rizqme/hype/internal/modules/globals"
	"github.com/rizqme/hype/internal/plugins"
	"github.com/rizqme/hype/internal/registry"
	"github.com/rizqme/hype/internal/resolver"
)

// EnvAccessPolicy controls which environment variables the global
// process.env object (built by buildEnvAccessor) exposes. The
// require("process") module's env.get/env.set do not consult it.
type EnvAccessPolicy struct {
	Mode      string // "deny_all", "allow_all", "allowlist", "denylist"
	Names     []string
	Patterns  []string
}

// Options configures a Host at construction time.
type Options struct {
	AllowAbsolutePaths bool
	MemoryLimitBytes   uint64
	ExecutionTimeout   time.Duration
	EnvAccessPolicy    EnvAccessPolicy
	Log                *logrus.Logger
}

// Host owns a single *goja.Runtime plus its registry, resolver, loader and
// built-in module table, matching one-interpreter-instance-per-process.
type Host struct {
	Runtime  *goja.Runtime
	Registry *registry.Registry
	Resolver *resolver.Resolver
	Builtins *bridge.Registry
	Plugins  *plugins.Registry
	Loader   *loader.Loader
	Manifest *manifest.Manifest
	Log      *logrus.Logger

	opts     Options
	rootDir  string
	timedOut bool

	// serialize is the single-slot channel drained by the goroutine started
	// in New and stopped by Dispose. Nothing in this package sends on it:
	// the timeout watchdog in Run calls Runtime.Interrupt directly, which
	// goja allows from another goroutine. It is not a task scheduler:
	// nothing queued here represents script-visible asynchronous work.
	serialize chan func()
	done      chan struct{}
}

// New constructs a Host, wires the registry/resolver/loader, and installs
// the enriched globals.
func New(opts Options, m *manifest.Manifest, rootDir string) *Host {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	rt := goja.New()
	if opts.MemoryLimitBytes > 0 {
		rt.SetMemoryLimit(int(opts.MemoryLimitBytes))
	}

	globalDir, _ := manifest.HypeHome()
	if globalDir != "" {
		globalDir = filepath.Join(globalDir, "modules")
	}

	h := &Host{
		Runtime:   rt,
		Registry:  registry.New(),
		Builtins:  bridge.NewRegistry(),
		Manifest:  m,
		Log:       opts.Log,
		opts:      opts,
		rootDir:   rootDir,
		serialize: make(chan func(), 1),
		done:      make(chan struct{}),
	}
	h.Plugins = plugins.NewRegistry(rt)

	h.Resolver = resolver.New(resolver.Options{
		Builtins:           h.Builtins.Names(),
		AllowAbsolutePaths: opts.AllowAbsolutePaths,
		RootDir:            rootDir,
		GlobalModulesDir:   globalDir,
		ImportMap:          m.Hype.Imports,
	})

	h.Loader = &loader.Loader{
		Runtime:  rt,
		Builtins: h.Builtins,
		Plugins:  h.Plugins,
		Require:  h.require,
	}

	go h.drain()
	h.installGlobals()
	return h
}

func (h *Host) drain() {
	for {
		select {
		case fn := <-h.serialize:
			fn()
		case <-h.done:
			return
		}
	}
}

// Dispose tears down the Host: stops the drain goroutine and drops the
// interpreter and registry. Per spec §9, teardown is deterministic: drop
// Host -> drop interpreter -> drop registry -> drop all cached exports,
// which in Go terms just means nothing else holds a reference after this
// returns.
func (h *Host) Dispose() {
	close(h.done)
}

// RegisterBuiltin exposes a built-in module factory under name and rebuilds
// the resolver so the name is resolvable at once. internal/modules.InstallAll
// does not use it: the standard modules register directly against h.Builtins
// and InstallAll calls RefreshBuiltins once afterwards.
func (h *Host) RegisterBuiltin(name string, f bridge.Factory) {
	h.Builtins.Register(name, f)
	// Builtins registered after New() computed the resolver's initial name
	// set are not yet in the resolver's view; keep it in sync.
	h.Resolver = resolver.New(resolver.Options{
		Builtins:           h.Builtins.Names(),
		AllowAbsolutePaths: h.opts.AllowAbsolutePaths,
		RootDir:            h.rootDir,
		GlobalModulesDir:   h.globalModulesDir(),
		ImportMap:          h.Manifest.Hype.Imports,
	})
}

// RefreshBuiltins rebuilds the resolver's builtin name set from the current
// contents of h.Builtins. Call this after registering a batch of built-in
// modules directly against h.Builtins (internal/modules.InstallAll does
// this once after registering every standard module, rather than paying
// the resolver-rebuild cost per module via RegisterBuiltin).
func (h *Host) RefreshBuiltins() {
	h.Resolver = resolver.New(resolver.Options{
		Builtins:           h.Builtins.Names(),
		AllowAbsolutePaths: h.opts.AllowAbsolutePaths,
		RootDir:            h.rootDir,
		GlobalModulesDir:   h.globalModulesDir(),
		ImportMap:          h.Manifest.Hype.Imports,
	})
}

func (h *Host) globalModulesDir() string {
	home, err := manifest.HypeHome()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "modules")
}

// require resolves and loads specifier relative to fromDir, via the
// registry's get_or_load protocol.
func (h *Host) require(specifier, fromDir string) (goja.Value, error) {
	var loc resolver.Location
	exports, err := h.Registry.GetOrLoad(specifier, fromDir,
		func() (string, error) {
			var rerr error
			loc, rerr = h.Resolver.Resolve(specifier, fromDir)
			if rerr != nil {
				return "", rerr
			}
			return resolver.CanonicalKeyFor(loc), nil
		},
		func(canonicalKey string) (interface{}, error) {
			val, lerr := h.Loader.Load(loc)
			if lerr != nil {
				return nil, lerr
			}
			return val, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if v, ok := exports.(goja.Value); ok {
		return v, nil
	}
	return h.Runtime.ToValue(exports), nil
}

// RequireResolve implements require.resolve(id): returns the canonical key
// without loading.
func (h *Host) RequireResolve(specifier, fromDir string) (string, error) {
	loc, err := h.Resolver.Resolve(specifier, fromDir)
	if err != nil {
		return "", err
	}
	return resolver.CanonicalKeyFor(loc), nil
}

func (h *Host) installGlobals() {
	rt := h.Runtime

	if err := globals.Install(rt); err != nil {
		h.Log.WithError(err).Warn("failed to install enriched globals")
	}

	requireFn := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(rt.NewTypeError("require requires a module specifier"))
		}
		specifier := call.Arguments[0].String()
		val, err := h.require(specifier, h.rootDir)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return val
	}
	requireVal := rt.ToValue(requireFn)
	requireObj := requireVal.ToObject(rt)
	requireObj.Set("resolve", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(rt.NewTypeError("require.resolve requires a module specifier"))
		}
		key, err := h.RequireResolve(call.Arguments[0].String(), h.rootDir)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(key)
	})
	requireObj.Set("__cacheSnapshot", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(h.Registry.Snapshot())
	})
	rt.Set("require", requireObj)
	// require.cache is specified as a live, read-only view over the
	// registry (SPEC_FULL.md §9.2): a getter re-reads the registry on
	// every access rather than snapshotting once at install time.
	if _, err := rt.RunString(`Object.defineProperty(require, "cache", { get: function() { return require.__cacheSnapshot(); }, enumerable: true });`); err != nil {
		h.Log.WithError(err).Error("failed to install require.cache getter")
	}

	processObj := rt.NewObject()
	args := append([]string{h.rootDir}, os.Args[1:]...)
	processObj.Set("argv", rt.ToValue(args))
	processObj.Set("platform", rt.ToValue(goOSName()))
	processObj.Set("arch", rt.ToValue(goArchName()))
	processObj.Set("pid", rt.ToValue(os.Getpid()))
	processObj.Set("env", h.buildEnvAccessor())
	processObj.Set("exit", func(call goja.FunctionCall) goja.Value {
		code := 0
		if len(call.Arguments) > 0 {
			code = int(call.Arguments[0].ToInteger())
		}
		h.Dispose()
		os.Exit(code)
		return goja.Undefined()
	})
	rt.Set("process", processObj)

	rt.Set("console", h.buildConsole())
}

func (h *Host) buildEnvAccessor() map[string]string {
	out := map[string]string{}
	policy := h.opts.EnvAccessPolicy
	switch policy.Mode {
	case "allow_all", "":
		for _, kv := range os.Environ() {
			for i := 0; i < len(kv); i++ {
				if kv[i] == '=' {
					out[kv[:i]] = kv[i+1:]
					break
				}
			}
		}
	case "allowlist":
		for _, name := range policy.Names {
			if v, ok := os.LookupEnv(name); ok {
				out[name] = v
			}
		}
	case "deny_all":
		// no entries
	case "denylist":
		for _, kv := range os.Environ() {
			for i := 0; i < len(kv); i++ {
				if kv[i] == '=' {
					name := kv[:i]
					if !matchesAny(name, policy.Patterns) {
						out[name] = kv[i+1:]
					}
					break
				}
			}
		}
	}
	return out
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (h *Host) buildConsole() *goja.Object {
	rt := h.Runtime
	obj := rt.NewObject()
	log := func(w *os.File) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			fmt.Fprintln(w, join(parts, " "))
			return goja.Undefined()
		}
	}
	obj.Set("log", log(os.Stdout))
	obj.Set("info", log(os.Stdout))
	obj.Set("warn", log(os.Stderr))
	obj.Set("error", log(os.Stderr))
	obj.Set("debug", log(os.Stdout))
	return obj
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func goOSName() string {
	return goruntime.GOOS
}

func goArchName() string {
	return goruntime.GOARCH
}

// Run compiles and executes the top-level script at path under the
// execution timeout and memory limit configured for this Host. A read
// failure is an IoError, a syntax error a ModuleCompileError and an expired
// timeout an ExecutionTimeout; any other interpreter failure becomes a
// ScriptExecutionError.
func (h *Host) Run(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "reading %s", path)
	}

	if h.opts.ExecutionTimeout > 0 {
		timer := time.AfterFunc(h.opts.ExecutionTimeout, func() {
			h.timedOut = true
			h.Runtime.Interrupt(herrors.New(herrors.KindExecutionTimeout, "execution timed out after %s", h.opts.ExecutionTimeout))
		})
		defer timer.Stop()
	}

	program, err := goja.Compile(path, string(source), false)
	if err != nil {
		return herrors.Wrap(herrors.KindModuleCompileError, err, "%s", path)
	}

	_, err = h.Runtime.RunProgram(program)
	if err != nil {
		if h.timedOut {
			return herrors.New(herrors.KindExecutionTimeout, "execution timed out after %s", h.opts.ExecutionTimeout)
		}
		if ie, ok := err.(*goja.InterruptedError); ok {
			if cause, ok := ie.Value().(error); ok {
				return cause
			}
			return herrors.Wrap(herrors.KindExecutionTimeout, err, "%s", path)
		}
		if exc, ok := err.(*goja.Exception); ok {
			return herrors.New(herrors.KindScriptExecutionError, "%s: %s", path, exc.Error())
		}
		return herrors.Wrap(herrors.KindScriptExecutionError, err, "%s", path)
	}
	return nil
}
