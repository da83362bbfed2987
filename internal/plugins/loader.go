package plugins

import (
	"path/filepath"
	"plugin"
	"strings"

	"github.com/rizqme/hype/internal/herrors"
)

// Loader opens native Go .so plugins via the standard plugin package and
// keeps a path-keyed cache of what it has already loaded, mirroring the
// module cache Registry keeps for script modules (internal/registry).
type Loader struct {
	plugins map[string]*PluginInfo
	runtime interface{}
}

// NewLoader creates a plugin loader. rt is passed through unmodified to
// Initialize on every loaded Plugin; the host passes its *goja.Runtime.
func NewLoader(rt interface{}) *Loader {
	return &Loader{
		plugins: make(map[string]*PluginInfo),
		runtime: rt,
	}
}

// LoadPlugin opens, initializes, and caches the plugin at path. A second
// call with the same path (after resolving to an absolute path) returns the
// cached PluginInfo without reopening the .so file.
func (l *Loader) LoadPlugin(path string) (*PluginInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindIoError, err, "plugin %s: resolving absolute path", path)
	}

	if info, exists := l.plugins[absPath]; exists {
		return info, nil
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "plugin %s: opening", path)
	}

	info := &PluginInfo{Path: absPath}
	if impl, err := l.loadPluginInterface(p); err == nil {
		info.Plugin = impl
		info.Name = impl.Name()
		info.Version = impl.Version()
		if err := impl.Initialize(l.runtime); err != nil {
			return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "plugin %s: initializing", info.Name)
		}
	} else {
		info.Name = l.extractPluginName(path)
		info.Version = "unknown"
		exports, err := l.loadDirectExports(p)
		if err != nil {
			return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "plugin %s: loading exports", info.Name)
		}
		info.Plugin = &directPlugin{name: info.Name, version: info.Version, exports: exports}
	}
	info.Initialized = true

	l.plugins[absPath] = info
	return info, nil
}

// loadPluginInterface looks for the Name/Version/Exports symbols that mark a
// plugin as implementing the Plugin interface directly, with optional
// Initialize/Dispose hooks.
func (l *Loader) loadPluginInterface(p *plugin.Plugin) (Plugin, error) {
	nameSymbol, err := p.Lookup("Name")
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "missing Name symbol")
	}
	versionSymbol, err := p.Lookup("Version")
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "missing Version symbol")
	}
	exportsSymbol, err := p.Lookup("Exports")
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "missing Exports symbol")
	}

	nameFunc, ok := nameSymbol.(func() string)
	if !ok {
		return nil, herrors.New(herrors.KindModuleExecutionError, "Name symbol has the wrong signature")
	}
	versionFunc, ok := versionSymbol.(func() string)
	if !ok {
		return nil, herrors.New(herrors.KindModuleExecutionError, "Version symbol has the wrong signature")
	}
	exportsFunc, ok := exportsSymbol.(func() map[string]interface{})
	if !ok {
		return nil, herrors.New(herrors.KindModuleExecutionError, "Exports symbol has the wrong signature")
	}

	sp := &standardPlugin{
		nameFunc:    nameFunc,
		versionFunc: versionFunc,
		exportsFunc: exportsFunc,
	}
	if sym, err := p.Lookup("Initialize"); err == nil {
		if fn, ok := sym.(func(interface{}) error); ok {
			sp.initializeFunc = fn
		}
	}
	if sym, err := p.Lookup("Dispose"); err == nil {
		if fn, ok := sym.(func() error); ok {
			sp.disposeFunc = fn
		}
	}
	return sp, nil
}

// loadDirectExports is the fallback path for a .so that does not implement
// the Plugin interface. Symbol introspection for bare function exports is
// not implemented; callers land here only when loadPluginInterface already
// failed, and get an empty export set rather than an error.
func (l *Loader) loadDirectExports(p *plugin.Plugin) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (l *Loader) extractPluginName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GetPlugin looks up a loaded plugin by its absolute path or its declared
// Name().
func (l *Loader) GetPlugin(nameOrPath string) (*PluginInfo, bool) {
	if info, exists := l.plugins[nameOrPath]; exists {
		return info, true
	}
	for _, info := range l.plugins {
		if info.Name == nameOrPath {
			return info, true
		}
	}
	return nil, false
}

func (l *Loader) ListPlugins() []*PluginInfo {
	out := make([]*PluginInfo, 0, len(l.plugins))
	for _, info := range l.plugins {
		out = append(out, info)
	}
	return out
}

// UnloadPlugin disposes and evicts a cached plugin, looked up the same way
// as GetPlugin.
func (l *Loader) UnloadPlugin(nameOrPath string) error {
	info, exists := l.GetPlugin(nameOrPath)
	if !exists {
		return herrors.New(herrors.KindValidationError, "plugin %q is not loaded", nameOrPath)
	}
	if info.Plugin != nil {
		if err := info.Plugin.Dispose(); err != nil {
			return herrors.Wrap(herrors.KindModuleExecutionError, err, "plugin %s: disposing", info.Name)
		}
	}
	delete(l.plugins, info.Path)
	return nil
}

// standardPlugin implements Plugin using symbols looked up directly from a
// .so's exported functions.
type standardPlugin struct {
	nameFunc       func() string
	versionFunc    func() string
	exportsFunc    func() map[string]interface{}
	initializeFunc func(interface{}) error
	disposeFunc    func() error
}

func (p *standardPlugin) Name() string    { return p.nameFunc() }
func (p *standardPlugin) Version() string { return p.versionFunc() }

func (p *standardPlugin) Initialize(rt interface{}) error {
	if p.initializeFunc != nil {
		return p.initializeFunc(rt)
	}
	return nil
}

func (p *standardPlugin) Exports() map[string]interface{} { return p.exportsFunc() }

func (p *standardPlugin) Dispose() error {
	if p.disposeFunc != nil {
		return p.disposeFunc()
	}
	return nil
}

// directPlugin wraps a .so that exposes exports without implementing the
// full Plugin interface.
type directPlugin struct {
	name    string
	version string
	exports map[string]interface{}
}

func (p *directPlugin) Name() string                    { return p.name }
func (p *directPlugin) Version() string                 { return p.version }
func (p *directPlugin) Initialize(rt interface{}) error { return nil }
func (p *directPlugin) Exports() map[string]interface{} { return p.exports }
func (p *directPlugin) Dispose() error                  { return nil }
