// Package timemod implements the fixed `time` built-in module: timestamps,
// strftime-style format/parse, ISO-8601, component accessors, sleep, and
// duration formatting.
//
// sleep blocks the calling (interpreter) thread directly via time.Sleep,
// replacing the teacher's goroutine-scheduled setTimeout delay concept —
// see SPEC_FULL.md §5: there is no event loop for a timer to defer onto.
package timemod

import (
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "time"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("nowMs", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Now().UnixMilli())
		})
		obj.Set("nowSec", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Now().Unix())
		})
		obj.Set("nowNs", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Now().UnixNano())
		})
		obj.Set("iso", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Now().UTC().Format(time.RFC3339Nano))
		})
		obj.Set("format", func(call goja.FunctionCall) goja.Value {
			ms := call.Arguments[0].ToInteger()
			layout := goLayout(strArg(call, 1))
			t := time.UnixMilli(ms).UTC()
			return rt.ToValue(t.Format(layout))
		})
		obj.Set("parse", func(call goja.FunctionCall) goja.Value {
			layout := goLayout(strArg(call, 1))
			t, err := time.Parse(layout, strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "parse", err)
			}
			return rt.ToValue(t.UnixMilli())
		})
		obj.Set("components", func(call goja.FunctionCall) goja.Value {
			ms := call.Arguments[0].ToInteger()
			t := time.UnixMilli(ms).UTC()
			c := rt.NewObject()
			c.Set("year", t.Year())
			c.Set("month", int(t.Month()))
			c.Set("day", t.Day())
			c.Set("hour", t.Hour())
			c.Set("minute", t.Minute())
			c.Set("second", t.Second())
			c.Set("weekday", int(t.Weekday()))
			return c
		})
		obj.Set("sleep", func(call goja.FunctionCall) goja.Value {
			ms := call.Arguments[0].ToInteger()
			time.Sleep(time.Duration(ms) * time.Millisecond)
			return goja.Undefined()
		})
		obj.Set("formatDuration", func(call goja.FunctionCall) goja.Value {
			ms := call.Arguments[0].ToInteger()
			return rt.ToValue((time.Duration(ms) * time.Millisecond).String())
		})
		return obj, nil
	})
}

// goLayout maps the handful of strftime directives this module documents to
// Go's reference-time layout strings.
func goLayout(strftime string) string {
	if strftime == "" {
		return time.RFC3339
	}
	replacer := strings.NewReplacer(
		"%Y", "2006", "%m", "01", "%d", "02",
		"%H", "15", "%M", "04", "%S", "05",
		"%Z", "Z0700", "%z", "-0700",
	)
	return replacer.Replace(strftime)
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
