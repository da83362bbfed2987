package plugins

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/herrors"
)

// Registry manages loaded native (.so) plugins and their JavaScript
// bindings, keyed by the plugin's declared Name(). It is consulted by the
// loader whenever the resolver yields a KindPlugin location.
type Registry struct {
	runtime *goja.Runtime
	loader  *Loader
	mu      sync.RWMutex
	byName  map[string]*goja.Object
}

func NewRegistry(rt *goja.Runtime) *Registry {
	return &Registry{
		runtime: rt,
		loader:  NewLoader(rt),
		byName:  map[string]*goja.Object{},
	}
}

// LoadPlugin loads (or returns the cached binding for) the plugin at path.
func (r *Registry) LoadPlugin(path string) (*goja.Object, error) {
	info, err := r.loader.LoadPlugin(path)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindModuleExecutionError, err, "loading plugin %s", path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if obj, ok := r.byName[info.Name]; ok {
		return obj, nil
	}
	obj := WrapPlugin(r.runtime, info.Plugin)
	r.byName[info.Name] = obj
	return obj, nil
}

func (r *Registry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) ListPlugins() []*PluginInfo {
	return r.loader.ListPlugins()
}

func (r *Registry) UnloadPlugin(name string) error {
	r.mu.Lock()
	delete(r.byName, name)
	r.mu.Unlock()
	return r.loader.UnloadPlugin(name)
}
