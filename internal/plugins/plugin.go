package plugins

// Plugin is the interface a native .so must satisfy (directly, via exported
// Name/Version/Exports/Initialize/Dispose functions, or through the
// directPlugin fallback Loader builds for a .so that only exports bare
// values) before Registry will wrap it into a goja object.
type Plugin interface {
	Name() string
	Version() string
	Initialize(runtime interface{}) error
	Exports() map[string]interface{}
	Dispose() error
}

// PluginInfo is what Loader caches per loaded .so: its resolved path, the
// Plugin it produced, and whether Initialize has run.
type PluginInfo struct {
	Name        string
	Version     string
	Path        string
	Plugin      Plugin
	Initialized bool
}

// NativeFunction is the shape a plugin export must have to be callable
// directly from script code without going through bridge's reflection-based
// function wrapping.
type NativeFunction func(args ...interface{}) (interface{}, error)

// PluginExport describes a single named value a plugin hands back from
// Exports(), used when a plugin wants to advertise richer metadata than a
// bare map[string]interface{} entry.
type PluginExport struct {
	Name        string
	Value       interface{}
	IsFunction  bool
	Description string
}
