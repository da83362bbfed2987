package herrors

import (
	"fmt"
	"runtime"
	"strings"
)

// StackFrame is one entry of a captured Go call stack, used for the
// --verbose diagnostic rendering of a ModuleError; never shown in the
// stable top-level error format.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// ModuleError augments a HypeError with a captured Go stack trace and an
// optional script-side stack trace string (taken from a goja exception),
// for diagnostic rendering. The loader and host return plain HypeErrors and
// do not construct a ModuleError; FormatStable and ExitCode below accept
// either type.
type ModuleError struct {
	*HypeError
	ModuleName   string
	ModulePath   string
	Operation    string
	StackTrace   []StackFrame
	JSStackTrace string
	SourceLine   string
}

func NewModuleError(kind Kind, moduleName, modulePath, op string, cause error) *ModuleError {
	return &ModuleError{
		HypeError:  Wrap(kind, cause, "%s: %s", op, errString(cause)),
		ModuleName: moduleName,
		ModulePath: modulePath,
		Operation:  op,
		StackTrace: captureStackTrace(2),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// WithJSStackTrace attaches a script-side stack trace string captured from
// the interpreter (e.g. a goja.Exception's Value().String()).
func (e *ModuleError) WithJSStackTrace(trace string) *ModuleError {
	e.JSStackTrace = trace
	return e
}

// WithSourceContext attaches the offending source line, when known.
func (e *ModuleError) WithSourceContext(line string) *ModuleError {
	e.SourceLine = line
	return e
}

func captureStackTrace(skip int) []StackFrame {
	var frames []StackFrame
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return frames
	}
	callersFrames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := callersFrames.Next()
		frames = append(frames, StackFrame{
			Function: shortFuncName(frame.Function),
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more || len(frames) >= 16 {
			break
		}
	}
	return frames
}

func shortFuncName(full string) string {
	idx := strings.LastIndex(full, "/")
	if idx == -1 {
		return full
	}
	return full[idx+1:]
}

// FormatVerbose renders a diagnostic, developer-facing view of the error
// including its Go and (when present) script stack traces. The CLI does not
// call it (--verbose only raises the log level); the top-level rendering is
// FormatStable.
func (e *ModuleError) FormatVerbose() string {
	var b strings.Builder
	b.WriteString(e.HypeError.Error())
	b.WriteString("\n")
	if e.ModuleName != "" {
		fmt.Fprintf(&b, "  module: %s", e.ModuleName)
		if e.ModulePath != "" {
			fmt.Fprintf(&b, " (%s)", e.ModulePath)
		}
		b.WriteString("\n")
	}
	if e.JSStackTrace != "" {
		b.WriteString("  script stack:\n")
		for _, line := range strings.Split(e.JSStackTrace, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if len(e.StackTrace) > 0 {
		b.WriteString("  go stack:\n")
		for _, f := range e.StackTrace {
			fmt.Fprintf(&b, "    %s (%s:%d)\n", f.Function, f.File, f.Line)
		}
	}
	return b.String()
}

// FormatStable renders the top-level stable format required by the error
// handling design: "<error-kind>: <message>" followed by an outermost-first
// cause chain.
func FormatStable(err error) string {
	he, ok := err.(*HypeError)
	if !ok {
		if me, ok2 := err.(*ModuleError); ok2 {
			he = me.HypeError
		} else {
			return err.Error()
		}
	}
	return he.Error()
}

// ExitCode maps an error to the CLI's process exit code: 1 for a generic
// runtime error, 2 for a manifest/usage error, 3 for an install-time
// command-name conflict. Any error that isn't a *HypeError (or wrapping
// one) is treated as a generic runtime error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	he, ok := err.(*HypeError)
	if !ok {
		if me, ok2 := err.(*ModuleError); ok2 {
			he = me.HypeError
		}
	}
	if he == nil {
		return 1
	}
	switch he.Kind {
	case KindManifestParseError, KindManifestInvalid:
		return 2
	case KindValidationError:
		if strings.Contains(he.Message, "already installed by") {
			return 3
		}
		return 2
	default:
		return 1
	}
}
