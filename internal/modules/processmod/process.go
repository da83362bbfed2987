// Package processmod implements the fixed `process` built-in module:
// cwd/chdir, env get/set, pid, platform, arch, argv, and exit. env.get and
// env.set read and write the real process environment directly: the host's
// EnvAccessPolicy, which filters the global process.env, is not applied to
// them.
//
// Grounded on the teacher's internal/modules/globals/process.go ProcessInfo,
// with its Uptime() bug fixed: the teacher computes time.Since(time.Now()),
// which is always ~0 because it never records a real start time. This
// module records startTime once at construction and measures uptime against
// it. Distinct from the host's global `process` object (installed directly
// by internal/host for process.argv/platform/exit per spec §4.5); this is
// the `require("process")` module form, offering the richer operation set
// (chdir, memoryUsage, hrtime) spec.md's built-in table lists beyond what
// the bare global exposes.
package processmod

import (
	"os"
	gruntime "runtime"
	"time"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "process"

func Install(reg *bridge.Registry) {
	startTime := time.Now()
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("cwd", func(call goja.FunctionCall) goja.Value {
			dir, err := os.Getwd()
			if err != nil {
				bridge.ThrowErr(rt, Name, "cwd", err)
			}
			return rt.ToValue(dir)
		})
		obj.Set("chdir", func(call goja.FunctionCall) goja.Value {
			if err := os.Chdir(strArg(call, 0)); err != nil {
				bridge.ThrowErr(rt, Name, "chdir", err)
			}
			return goja.Undefined()
		})
		obj.Set("pid", os.Getpid())
		obj.Set("platform", gruntime.GOOS)
		obj.Set("arch", gruntime.GOARCH)
		obj.Set("argv", os.Args)
		obj.Set("exit", func(call goja.FunctionCall) goja.Value {
			code := 0
			if len(call.Arguments) > 0 {
				code = int(call.Arguments[0].ToInteger())
			}
			os.Exit(code)
			return goja.Undefined()
		})
		obj.Set("memoryUsage", func(call goja.FunctionCall) goja.Value {
			var m gruntime.MemStats
			gruntime.ReadMemStats(&m)
			out := rt.NewObject()
			out.Set("rss", m.Sys)
			out.Set("heapTotal", m.HeapSys)
			out.Set("heapUsed", m.HeapAlloc)
			return out
		})
		obj.Set("uptime", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Since(startTime).Seconds())
		})
		obj.Set("hrtime", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Now().UnixNano())
		})
		envGet := func(call goja.FunctionCall) goja.Value {
			v, ok := os.LookupEnv(strArg(call, 0))
			if !ok {
				return goja.Undefined()
			}
			return rt.ToValue(v)
		}
		obj.Set("env", rt.NewObject())
		envObj := obj.Get("env").ToObject(rt)
		envObj.Set("get", envGet)
		envObj.Set("set", func(call goja.FunctionCall) goja.Value {
			if err := os.Setenv(strArg(call, 0), strArg(call, 1)); err != nil {
				bridge.ThrowErr(rt, Name, "env.set", err)
			}
			return goja.Undefined()
		})
		return obj, nil
	})
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
