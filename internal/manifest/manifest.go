// Package manifest parses and validates the on-disk package descriptor
// (name/version/main/bin/dependencies) plus the hype-specific config block,
// and manages the peripheral global install registry at ~/.hype/registry.json.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rizqme/hype/internal/herrors"
)

const manifestFileName = "package.json"

var (
	nameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,214}$`)
	binRegex  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Manifest is the validated package descriptor, parsed from package.json.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Main            string            `json:"main,omitempty"`
	Bin             map[string]string `json:"bin,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Hype            Config            `json:"hype,omitempty"`

	// Extra preserves unknown top-level keys so that a rewritten document
	// round-trips them unchanged, per the manifest file format contract.
	Extra map[string]json.RawMessage `json:"-"`

	// ProjectRoot is not serialized; it is the directory the manifest was
	// loaded from, used to resolve Main/Bin paths and to Save() back.
	ProjectRoot string `json:"-"`
}

// Config is the "hype" configuration block: import-map overrides and
// permission policy, consumed by the resolver and the built-in modules
// respectively, never by the resolver's canonicalization logic itself.
type Config struct {
	Imports     map[string]string `json:"imports,omitempty"`
	Registries  map[string]string `json:"registries,omitempty"`
	Permissions Permissions       `json:"permissions,omitempty"`
}

// Permissions mirrors the env_access_policy generalization described in
// SPEC_FULL.md §3.1: allow-lists for network, filesystem read/write, and
// environment variable access.
type Permissions struct {
	AllowNet   []string `json:"allow-net,omitempty"`
	AllowRead  []string `json:"allow-read,omitempty"`
	AllowWrite []string `json:"allow-write,omitempty"`
	AllowEnv   []string `json:"allow-env,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Imports:    map[string]string{},
		Registries: map[string]string{},
	}
}

// FindProjectRoot walks up from the entrypoint's directory looking for a
// package.json; returns the entrypoint's own directory if none is found.
func FindProjectRoot(entrypoint string) string {
	dir := filepath.Dir(entrypoint)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, manifestFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Dir(entrypoint)
}

// Load reads and validates package.json in projectRoot. A missing file is
// not an error: a default manifest is returned, matching the teacher's
// permissive "no manifest yet" behavior for ad hoc script runs.
func Load(projectRoot string) (*Manifest, error) {
	path := filepath.Join(projectRoot, manifestFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{
			Name:        "hype-app",
			Version:     "0.0.0",
			ProjectRoot: projectRoot,
			Hype:        defaultConfig(),
		}, nil
	}
	if err != nil {
		return nil, herrors.Wrap(herrors.KindIoError, err, "reading %s", path)
	}

	if err := rejectDuplicateKeys(data); err != nil {
		return nil, herrors.Wrap(herrors.KindManifestParseError, err, "parsing %s", path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, herrors.Wrap(herrors.KindManifestParseError, err, "parsing %s", path)
	}

	m := &Manifest{ProjectRoot: projectRoot, Hype: defaultConfig()}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, herrors.Wrap(herrors.KindManifestParseError, err, "parsing %s", path)
	}

	known := map[string]bool{
		"name": true, "version": true, "description": true, "main": true,
		"bin": true, "dependencies": true, "devDependencies": true, "hype": true,
	}
	extra := map[string]json.RawMessage{}
	for k, v := range raw {
		if !known[k] {
			extra[k] = v
		}
	}
	m.Extra = extra

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate enforces the fail-fast validation rules: name format, non-empty
// version, and per-bin-entry command-name/path/existence checks. The first
// violation is reported.
func Validate(m *Manifest) error {
	if m.Name == "" || !nameRegex.MatchString(m.Name) {
		return herrors.New(herrors.KindManifestInvalid, "field %q: %q is not a valid package name", "name", m.Name)
	}
	if m.Version == "" {
		return herrors.New(herrors.KindManifestInvalid, "field %q: version must not be empty", "version")
	}
	for cmd, relPath := range m.Bin {
		if !binRegex.MatchString(cmd) {
			return &herrors.HypeError{
				Kind:    herrors.KindManifestInvalid,
				Message: fmt.Sprintf("bin command name %q is invalid", cmd),
			}
		}
		if relPath == "" || filepath.IsAbs(relPath) || hasParentTraversal(relPath) {
			return &herrors.HypeError{
				Kind:    herrors.KindManifestInvalid,
				Message: fmt.Sprintf("bin.%s: path %q must be relative with no parent-directory segments", cmd, relPath),
			}
		}
		if m.ProjectRoot != "" {
			full := filepath.Join(m.ProjectRoot, relPath)
			if _, err := os.Stat(full); err != nil {
				return &herrors.HypeError{
					Kind:    herrors.KindManifestInvalid,
					Message: fmt.Sprintf("bin.%s: script %q does not exist", cmd, relPath),
				}
			}
		}
	}
	return nil
}

// rejectDuplicateKeys walks data's token stream looking for a repeated key
// within any single JSON object, at any nesting depth. encoding/json's
// Unmarshal silently keeps the last occurrence of a duplicate key, which
// would let a tampered or hand-edited package.json hide a second "name" or
// "dependencies" block; this tripwire makes that a hard parse error instead.
func rejectDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	_, err := walkJSONValue(dec)
	return err
}

func walkJSONValue(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		seen := map[string]bool{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			if seen[key] {
				return nil, fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = true
			if _, err := walkJSONValue(dec); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	case '[':
		for dec.More() {
			if _, err := walkJSONValue(dec); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

func hasParentTraversal(p string) bool {
	clean := filepath.ToSlash(p)
	for _, seg := range splitSlash(clean) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func splitSlash(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '/' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}

// Save writes the manifest back to package.json, merging Extra so that
// unknown keys round-trip unchanged.
func (m *Manifest) Save() error {
	if m.ProjectRoot == "" {
		return herrors.New(herrors.KindValidationError, "manifest has no project root to save to")
	}
	out := map[string]json.RawMessage{}
	for k, v := range m.Extra {
		out[k] = v
	}
	marshal := func(v interface{}) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}
	out["name"] = marshal(m.Name)
	out["version"] = marshal(m.Version)
	if m.Description != "" {
		out["description"] = marshal(m.Description)
	}
	if m.Main != "" {
		out["main"] = marshal(m.Main)
	}
	if len(m.Bin) > 0 {
		out["bin"] = marshal(m.Bin)
	}
	if len(m.Dependencies) > 0 {
		out["dependencies"] = marshal(m.Dependencies)
	}
	if len(m.DevDependencies) > 0 {
		out["devDependencies"] = marshal(m.DevDependencies)
	}
	out["hype"] = marshal(m.Hype)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "marshaling package.json")
	}
	path := filepath.Join(m.ProjectRoot, manifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return herrors.Wrap(herrors.KindIoError, err, "writing %s", path)
	}
	return nil
}

// MainEntry returns the manifest's entry script, defaulting to index.js.
func (m *Manifest) MainEntry() string {
	if m.Main != "" {
		return m.Main
	}
	return "index.js"
}

