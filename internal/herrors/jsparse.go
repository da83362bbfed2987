package herrors

import (
	"regexp"
	"strconv"
	"strings"
)

// JSStackFrame is one parsed frame of a script-language stack trace string,
// as produced by goja's Exception formatting.
type JSStackFrame struct {
	Function string
	File     string
	Line     int
	Column   int
}

var (
	// V8-style: "at Function (file:line:column)"
	stackFrameWithFunc = regexp.MustCompile(`^\s*at\s+(.+?)\s+\((.+?):(\d+):(\d+)\)$`)
	// V8-style without a function name: "at file:line:column"
	stackFrameBare = regexp.MustCompile(`^\s*at\s+(.+?):(\d+):(\d+)$`)
)

// ParseJSStackTrace parses a multi-line script stack trace string (the
// conventional "Error: message\n  at f (file:1:2)\n  ..." shape) into
// structured frames. Unparsable lines are skipped rather than erroring; the
// caller already has the raw string for fallback display.
func ParseJSStackTrace(trace string) []JSStackFrame {
	var frames []JSStackFrame
	for _, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "at ") {
			continue
		}
		if m := stackFrameWithFunc.FindStringSubmatch(line); len(m) == 5 {
			l, _ := strconv.Atoi(m[3])
			c, _ := strconv.Atoi(m[4])
			frames = append(frames, JSStackFrame{Function: m[1], File: m[2], Line: l, Column: c})
			continue
		}
		if m := stackFrameBare.FindStringSubmatch(line); len(m) == 4 {
			l, _ := strconv.Atoi(m[2])
			c, _ := strconv.Atoi(m[3])
			frames = append(frames, JSStackFrame{Function: "<anonymous>", File: m[1], Line: l, Column: c})
		}
	}
	return frames
}
