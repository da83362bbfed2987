// Package herrors defines the typed error taxonomy that flows through the
// resolver, loader, registry, manifest and host layers.
package herrors

import (
	"fmt"
	"strings"
)

// Kind categorizes an error into one of the taxonomy rows from the error
// handling design: each Kind originates in exactly one layer and carries a
// human-readable message plus whatever structured context that layer knows.
type Kind string

const (
	KindModuleNotFound       Kind = "ModuleNotFound"
	KindCircularDependency   Kind = "CircularDependency"
	KindModuleCompileError   Kind = "ModuleCompileError"
	KindModuleExecutionError Kind = "ModuleExecutionError"
	KindManifestParseError   Kind = "ManifestParseError"
	KindManifestInvalid      Kind = "ManifestInvalid"
	KindScriptExecutionError Kind = "ScriptExecutionError"
	KindExecutionTimeout     Kind = "ExecutionTimeout"
	KindMemoryLimitExceeded  Kind = "MemoryLimitExceeded"
	KindHostModuleError      Kind = "HostModuleError"
	KindIoError              Kind = "IoError"
	KindValidationError      Kind = "ValidationError"
	KindAbsolutePathRefused  Kind = "AbsolutePathRefused"
	KindPermissionDenied     Kind = "PermissionDenied"
)

// HypeError is the typed error carried across every layer of the host. It is
// deliberately returned as an explicit value rather than panicked wherever
// the caller can reasonably continue.
type HypeError struct {
	Kind    Kind
	Message string
	// Module, Path, Identifier, Line, Column are optional context fields;
	// only the ones relevant to Kind are populated.
	Module     string
	Path       string
	Identifier string
	Line       int
	Column     int
	Chain      []string // additional context frames, outermost first
	Cause      error
}

func (e *HypeError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	for _, c := range e.Chain {
		b.WriteString("\n  caused by: ")
		b.WriteString(c)
	}
	if e.Cause != nil {
		b.WriteString("\n  caused by: ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *HypeError) Unwrap() error {
	return e.Cause
}

// New constructs a HypeError of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *HypeError {
	return &HypeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a HypeError of the given kind that carries cause as its
// underlying error.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *HypeError {
	return &HypeError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ModuleNotFound builds the ModuleNotFound error, listing every candidate
// path the resolver probed, per the resolver's failure contract.
func ModuleNotFound(identifier string, searched []string) *HypeError {
	return &HypeError{
		Kind:       KindModuleNotFound,
		Message:    fmt.Sprintf("cannot find module %q", identifier),
		Identifier: identifier,
		Chain:      append([]string{"searched:"}, searched...),
	}
}

// CircularDependency builds the CircularDependency error whose chain lists
// every canonical key on the loading stack from the point of re-entry
// forward, per the registry's cycle-detection contract.
func CircularDependency(chain []string) *HypeError {
	return &HypeError{
		Kind:    KindCircularDependency,
		Message: fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		Chain:   chain,
	}
}

// AbsolutePathRefused builds the error raised when absolute require paths
// are disallowed by the host's configuration.
func AbsolutePathRefused(identifier string) *HypeError {
	return &HypeError{
		Kind:       KindAbsolutePathRefused,
		Message:    fmt.Sprintf("absolute module path %q is not permitted", identifier),
		Identifier: identifier,
	}
}

// HostModuleError builds the sub-kinded error a built-in module raises when
// one of its operations fails; it is the error that gets converted into a
// catchable script-language error at the bridge boundary.
func HostModuleError(module, op string, cause error) *HypeError {
	return &HypeError{
		Kind:    KindHostModuleError,
		Message: fmt.Sprintf("%s.%s: %s", module, op, cause.Error()),
		Module:  module,
		Cause:   cause,
	}
}

// IsKind reports whether err is a *HypeError of the given kind.
func IsKind(err error, kind Kind) bool {
	he, ok := err.(*HypeError)
	if !ok {
		return false
	}
	return he.Kind == kind
}
