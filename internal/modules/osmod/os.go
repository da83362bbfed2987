// Package osmod implements the fixed `os` built-in module: platform, arch,
// hostname, CPU count, uptime, user info, and line-ending convention.
package osmod

import (
	"os"
	"os/user"
	gruntime "runtime"
	"time"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
)

const Name = "os"

var startTime = time.Now()

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("platform", gruntime.GOOS)
		obj.Set("arch", gruntime.GOARCH)
		obj.Set("hostname", func(call goja.FunctionCall) goja.Value {
			name, err := os.Hostname()
			if err != nil {
				bridge.ThrowErr(rt, Name, "hostname", err)
			}
			return rt.ToValue(name)
		})
		obj.Set("cpus", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(gruntime.NumCPU())
		})
		obj.Set("uptime", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(time.Since(startTime).Seconds())
		})
		obj.Set("loadavg", func(call goja.FunctionCall) goja.Value {
			// Not portable via the standard library; always reported as
			// zeroes on every platform (nothing is read from /proc),
			// rather than faking plausible-looking numbers.
			return rt.ToValue([]float64{0, 0, 0})
		})
		obj.Set("userInfo", func(call goja.FunctionCall) goja.Value {
			u, err := user.Current()
			if err != nil {
				bridge.ThrowErr(rt, Name, "userInfo", err)
			}
			info := rt.NewObject()
			info.Set("username", u.Username)
			info.Set("homedir", u.HomeDir)
			info.Set("uid", u.Uid)
			info.Set("gid", u.Gid)
			return info
		})
		obj.Set("eol", func(call goja.FunctionCall) goja.Value {
			if gruntime.GOOS == "windows" {
				return rt.ToValue("\r\n")
			}
			return rt.ToValue("\n")
		})
		obj.Set("networkInterfaces", func(call goja.FunctionCall) goja.Value {
			ifaces, err := netInterfaces()
			if err != nil {
				bridge.ThrowErr(rt, Name, "networkInterfaces", err)
			}
			return rt.ToValue(ifaces)
		})
		return obj, nil
	})
}
