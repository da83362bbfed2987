// Package registry implements the module cache and cycle detector described
// in spec §4.3: by_canonical, by_identifier, and the loading_stack.
package registry

import (
	"sync"

	"github.com/rizqme/hype/internal/herrors"
)

// State is a Module's lifecycle state.
type State int

const (
	Loading State = iota
	Loaded
	Failed
)

// Module is the cached result of loading a ResolvedLocation.
type Module struct {
	ID           string
	CanonicalKey string
	Exports      interface{}
	State        State
	Err          error
	Dependencies []string
}

// Loader is invoked by the registry exactly once per canonical key; it must
// return the exports value for that location or a typed error.
type Loader func(canonicalKey string) (interface{}, error)

// Registry is the process-wide module cache plus cycle detector. All
// methods are safe to call from the single interpreter thread; the mutex
// exists only to guard against the rare cross-goroutine access (e.g. a
// require.cache read triggered from outside the interpreter thread), not to
// support genuine concurrent loading — spec §5 stipulates single-threaded
// execution.
type Registry struct {
	mu           sync.Mutex
	byCanonical  map[string]*Module
	byIdentifier map[string]string // "requestingDir\x00identifier" -> canonical key
	loadingStack []string
}

func New() *Registry {
	return &Registry{
		byCanonical:  map[string]*Module{},
		byIdentifier: map[string]string{},
	}
}

func aliasKey(requestingDir, identifier string) string {
	return requestingDir + "\x00" + identifier
}

// GetOrLoad implements the get_or_load protocol of §4.3. resolve must map
// (identifier, requestingDir) to a canonical key deterministically; load is
// invoked at most once per canonical key.
func (r *Registry) GetOrLoad(identifier, requestingDir string, resolve func() (canonicalKey string, err error), load Loader) (interface{}, error) {
	r.mu.Lock()
	alias := aliasKey(requestingDir, identifier)
	if canon, ok := r.byIdentifier[alias]; ok {
		mod := r.byCanonical[canon]
		r.mu.Unlock()
		return r.resolveModuleOutcome(canon, mod, load)
	}
	r.mu.Unlock()

	canon, err := resolve()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.byIdentifier[alias] = canon
	mod, exists := r.byCanonical[canon]
	r.mu.Unlock()

	if !exists {
		return r.load(canon, load)
	}
	return r.resolveModuleOutcome(canon, mod, load)
}

func (r *Registry) resolveModuleOutcome(canon string, mod *Module, load Loader) (interface{}, error) {
	if mod == nil {
		return r.load(canon, load)
	}
	switch mod.State {
	case Loaded:
		return mod.Exports, nil
	case Failed:
		return nil, mod.Err
	case Loading:
		r.mu.Lock()
		chain := append(append([]string{}, r.loadingStack...), canon)
		r.mu.Unlock()
		return nil, herrors.CircularDependency(chain)
	}
	return nil, herrors.New(herrors.KindValidationError, "unreachable module state")
}

func (r *Registry) load(canon string, load Loader) (interface{}, error) {
	r.mu.Lock()
	if mod, exists := r.byCanonical[canon]; exists {
		r.mu.Unlock()
		return r.resolveModuleOutcome(canon, mod, load)
	}
	mod := &Module{ID: canon, CanonicalKey: canon, State: Loading}
	r.byCanonical[canon] = mod
	r.loadingStack = append(r.loadingStack, canon)
	r.mu.Unlock()

	exports, err := load(canon)

	r.mu.Lock()
	// pop canon from the loading stack (it is always the top, since the
	// interpreter is single-threaded and loads never interleave)
	if n := len(r.loadingStack); n > 0 && r.loadingStack[n-1] == canon {
		r.loadingStack = r.loadingStack[:n-1]
	}
	if err != nil {
		mod.State = Failed
		mod.Err = err
	} else {
		mod.State = Loaded
		mod.Exports = exports
	}
	r.mu.Unlock()

	return exports, err
}

// RecordDependency appends dep to the dependency list of the module
// currently identified by canon, for diagnostics.
func (r *Registry) RecordDependency(canon, dep string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mod, ok := r.byCanonical[canon]; ok {
		mod.Dependencies = append(mod.Dependencies, dep)
	}
}

// ListLoaded returns every (canonical_key, state) pair currently cached.
func (r *Registry) ListLoaded() []struct {
	Key   string
	State State
} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]struct {
		Key   string
		State State
	}, 0, len(r.byCanonical))
	for k, m := range r.byCanonical {
		out = append(out, struct {
			Key   string
			State State
		}{k, m.State})
	}
	return out
}

// Snapshot returns a read-only copy of the canonical-key -> exports mapping,
// backing the script-facing require.cache (callers should call Snapshot
// lazily on each access, not cache the result, so later loads are visible;
// see the require.cache decision in SPEC_FULL.md §9.2).
func (r *Registry) Snapshot() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]interface{}, len(r.byCanonical))
	for k, m := range r.byCanonical {
		if m.State == Loaded {
			out[k] = m.Exports
		}
	}
	return out
}
