// Package resolver implements the module resolution algorithm: mapping a
// (requesting_module_dir, identifier) pair to a concrete ResolvedLocation,
// or a typed failure.
package resolver

import (
	"os"
	"path/filepath"

	"github.com/rizqme/hype/internal/herrors"
	"github.com/rizqme/hype/internal/manifest"
)

// LocationKind tags a ResolvedLocation's variant.
type LocationKind int

const (
	KindBuiltin LocationKind = iota
	KindScriptFile
	KindPlugin // a .so native plugin, resolved through ordinary filesystem steps
)

// Location is the resolver's output: a tagged variant naming either a
// built-in module or a concrete filesystem path.
type Location struct {
	Kind LocationKind
	Name string // set when Kind == KindBuiltin
	Path string // set when Kind == KindScriptFile or KindPlugin; always canonical
}

// PackageDirName is the fixed, conventional name of a per-project package
// directory, walked up the ancestor chain by resolver step 4. Only the
// current name is normative; no legacy alias is recognized.
const PackageDirName = "hype_modules"

const scriptExt = ".js"

// Options configures resolver behavior that is not itself part of the
// algorithm's control flow (the set of built-in names, whether absolute
// paths are permitted, the root directory anchoring direct-file fallback,
// and the global package directory).
type Options struct {
	Builtins            map[string]bool
	AllowAbsolutePaths  bool
	RootDir             string // directory of the top-level script
	GlobalModulesDir     string // ~/.hype/modules, or HYPE_HOME override
	ImportMap           map[string]string
}

// Resolver resolves module identifiers to locations per spec §4.1.
type Resolver struct {
	opts Options
}

func New(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Resolve runs the seven-step algorithm, first match wins.
func (r *Resolver) Resolve(identifier, requestingDir string) (Location, error) {
	// Step 1: built-in table. Built-ins take precedence over any filesystem
	// entry of the same name. The identifier as written is checked before
	// the import map is applied, so an import map cannot redirect a built-in
	// name elsewhere; the post-import-map identifier is checked too, so a
	// name mapped onto a built-in name resolves to that built-in.
	if r.opts.Builtins[identifier] {
		return Location{Kind: KindBuiltin, Name: identifier}, nil
	}
	id := r.applyImportMap(identifier)
	if r.opts.Builtins[id] {
		return Location{Kind: KindBuiltin, Name: id}, nil
	}

	var searched []string

	// Step 2: relative.
	if isRelative(id) {
		candidate := filepath.Join(requestingDir, id)
		loc, ok, tried := r.probeFile(candidate)
		searched = append(searched, tried...)
		if ok {
			return loc, nil
		}
		return Location{}, herrors.ModuleNotFound(identifier, searched)
	}

	// Step 3: absolute.
	if filepath.IsAbs(id) {
		if !r.opts.AllowAbsolutePaths {
			return Location{}, herrors.AbsolutePathRefused(identifier)
		}
		loc, ok, tried := r.probeFile(id)
		searched = append(searched, tried...)
		if ok {
			return loc, nil
		}
		return Location{}, herrors.ModuleNotFound(identifier, searched)
	}

	// Step 4: local package directories, innermost ancestor first.
	for dir := requestingDir; ; {
		candidate := filepath.Join(dir, PackageDirName, id)
		loc, ok, tried := r.probePackage(candidate)
		searched = append(searched, tried...)
		if ok {
			return loc, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Step 5: global package directory.
	if r.opts.GlobalModulesDir != "" {
		candidate := filepath.Join(r.opts.GlobalModulesDir, id)
		loc, ok, tried := r.probePackage(candidate)
		searched = append(searched, tried...)
		if ok {
			return loc, nil
		}
	}

	// Step 6: direct-file fallback, anchored at the top-level script's
	// directory (not the requesting module's directory).
	if r.opts.RootDir != "" {
		root := r.opts.RootDir
		candidates := []string{
			filepath.Join(root, id+scriptExt),
			filepath.Join(root, id, "index"+scriptExt),
			filepath.Join(root, id, "init"+scriptExt),
		}
		for _, c := range candidates {
			searched = append(searched, c)
			if info, err := os.Stat(c); err == nil && !info.IsDir() {
				return canonicalScriptLocation(c)
			}
		}
		dirCandidate := filepath.Join(root, id)
		if info, err := os.Stat(dirCandidate); err == nil && info.IsDir() {
			loc, ok, tried := r.probePackage(dirCandidate)
			searched = append(searched, tried...)
			if ok {
				return loc, nil
			}
		}
	}

	// Step 7.
	return Location{}, herrors.ModuleNotFound(identifier, searched)
}

func (r *Resolver) applyImportMap(id string) string {
	if r.opts.ImportMap == nil {
		return id
	}
	if replacement, ok := r.opts.ImportMap[id]; ok {
		return replacement
	}
	return id
}

func isRelative(id string) bool {
	return len(id) >= 2 && (id[:2] == "./" || (len(id) >= 3 && id[:3] == "../"))
}

// probeFile runs the file-extension probe on candidate: if it exists as a
// regular file, return it; if extension-less, retry with scriptExt; if a
// directory, delegate to the package probe.
func (r *Resolver) probeFile(candidate string) (Location, bool, []string) {
	var tried []string
	tried = append(tried, candidate)
	if info, err := os.Stat(candidate); err == nil {
		if info.IsDir() {
			loc, ok, t := r.probePackage(candidate)
			return loc, ok, append(tried, t...)
		}
		loc, err := locationForFile(candidate)
		if err != nil {
			return Location{}, false, tried
		}
		return loc, true, tried
	}
	if filepath.Ext(candidate) == "" {
		withExt := candidate + scriptExt
		tried = append(tried, withExt)
		if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
			loc, err := locationForFile(withExt)
			if err != nil {
				return Location{}, false, tried
			}
			return loc, true, tried
		}
	}
	return Location{}, false, tried
}

// probePackage runs the package probe on a directory: consult its manifest's
// main field, else index/init, returning the first hit.
func (r *Resolver) probePackage(dir string) (Location, bool, []string) {
	var tried []string
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		tried = append(tried, dir)
		// dir itself might be a file missing its extension; let probeFile
		// handle that case from the caller's perspective instead.
		return r.probeFile(dir)
	}
	if m, err := manifest.Load(dir); err == nil && m.Main != "" {
		candidate := filepath.Join(dir, m.Main)
		loc, ok, t := r.probeFile(candidate)
		tried = append(tried, t...)
		if ok {
			return loc, true, tried
		}
	}
	for _, name := range []string{"index" + scriptExt, "init" + scriptExt} {
		candidate := filepath.Join(dir, name)
		tried = append(tried, candidate)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			loc, err := locationForFile(candidate)
			if err != nil {
				continue
			}
			return loc, true, tried
		}
	}
	return Location{}, false, tried
}

func locationForFile(path string) (Location, error) {
	if filepath.Ext(path) == ".so" {
		canon, err := canonicalize(path)
		if err != nil {
			return Location{}, err
		}
		return Location{Kind: KindPlugin, Path: canon}, nil
	}
	return canonicalScriptLocation(path)
}

func canonicalScriptLocation(path string) (Location, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return Location{}, err
	}
	return Location{Kind: KindScriptFile, Path: canon}, nil
}

// canonicalize produces the symlink-resolved, normalized absolute path used
// as the registry's canonical key: two identifiers reaching the same
// underlying file must produce the same key.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file may not exist yet in edge cases (e.g. being probed
		// speculatively); fall back to the absolute, cleaned path.
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

// CanonicalKeyFor implements §4.3's canonical_key_for for a resolved
// location.
func CanonicalKeyFor(loc Location) string {
	if loc.Kind == KindBuiltin {
		return "builtin:" + loc.Name
	}
	return loc.Path
}
