package plugins

import "github.com/dop251/goja"

// WrapPlugin creates a JavaScript object exposing a loaded plugin's
// exports. goja converts Go values (including Go functions matching its
// supported call shapes) to script values automatically, so each export is
// simply Set directly onto a fresh object — the same idiom the teacher used
// behind its VM/Object abstraction, now targeting *goja.Runtime/*goja.Object
// directly since this package already depends on goja for plugin symbol
// shapes elsewhere.
func WrapPlugin(rt *goja.Runtime, plugin Plugin) *goja.Object {
	exports := plugin.Exports()
	obj := rt.NewObject()
	obj.Set("__pluginName", plugin.Name())
	obj.Set("__pluginVersion", plugin.Version())
	for name, value := range exports {
		obj.Set(name, value)
	}
	return obj
}
