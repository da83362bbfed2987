// Package fs implements the fixed `fs` built-in module: synchronous file
// I/O, plus streaming read/write adapted from the teacher's stream
// primitives (spec.md's built-in table does not list a standalone `stream`
// module, so that machinery is repurposed here instead of left unwired).
package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dop251/goja"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "fs"

// Policy gates which paths readFile/writeFile/createReadStream/
// createWriteStream etc. may touch, per a manifest's hype.permissions
// block (SPEC_FULL.md §3.1). An empty allowlist permits everything,
// matching the teacher's unrestricted default.
type Policy struct {
	AllowRead  []string
	AllowWrite []string
}

func (p Policy) checkRead(rt *goja.Runtime, path string) {
	if len(p.AllowRead) == 0 {
		return
	}
	if !pathAllowed(path, p.AllowRead) {
		bridge.Throw(rt, herrors.KindPermissionDenied, "fs: read access to %q is not permitted", path)
	}
}

func (p Policy) checkWrite(rt *goja.Runtime, path string) {
	if len(p.AllowWrite) == 0 {
		return
	}
	if !pathAllowed(path, p.AllowWrite) {
		bridge.Throw(rt, herrors.KindPermissionDenied, "fs: write access to %q is not permitted", path)
	}
}

func pathAllowed(path string, allowed []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, a := range allowed {
		allowedAbs, err := filepath.Abs(a)
		if err != nil {
			allowedAbs = a
		}
		if abs == allowedAbs || strings.HasPrefix(abs, allowedAbs+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Install registers the fs module with an unrestricted Policy. Use
// InstallWithPolicy to enforce read/write allowlists.
func Install(reg *bridge.Registry) {
	InstallWithPolicy(reg, Policy{})
}

// InstallWithPolicy registers the fs module enforcing policy on every
// path-accepting operation.
func InstallWithPolicy(reg *bridge.Registry, policy Policy) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("readFile", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkRead(rt, path)
			data, err := os.ReadFile(path)
			if err != nil {
				bridge.ThrowErr(rt, Name, "readFile", err)
			}
			return rt.ToValue(string(data))
		})
		obj.Set("writeFile", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			content := arg(call, 1)
			policy.checkWrite(rt, path)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				bridge.ThrowErr(rt, Name, "writeFile", err)
			}
			return goja.Undefined()
		})
		obj.Set("exists", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkRead(rt, path)
			_, err := os.Stat(path)
			return rt.ToValue(err == nil)
		})
		obj.Set("stat", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkRead(rt, path)
			info, err := os.Stat(path)
			if err != nil {
				bridge.ThrowErr(rt, Name, "stat", err)
			}
			s := rt.NewObject()
			s.Set("size", info.Size())
			s.Set("isDirectory", info.IsDir())
			s.Set("isFile", !info.IsDir())
			s.Set("modified", info.ModTime().Unix())
			return s
		})
		obj.Set("readDir", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkRead(rt, path)
			entries, err := os.ReadDir(path)
			if err != nil {
				bridge.ThrowErr(rt, Name, "readDir", err)
			}
			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}
			sort.Strings(names)
			return rt.ToValue(names)
		})
		obj.Set("remove", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkWrite(rt, path)
			if err := os.Remove(path); err != nil {
				bridge.ThrowErr(rt, Name, "remove", err)
			}
			return goja.Undefined()
		})
		obj.Set("mkdir", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkWrite(rt, path)
			recursive := len(call.Arguments) > 1 && call.Arguments[1].ToBoolean()
			var err error
			if recursive {
				err = os.MkdirAll(path, 0o755)
			} else {
				err = os.Mkdir(path, 0o755)
			}
			if err != nil {
				bridge.ThrowErr(rt, Name, "mkdir", err)
			}
			return goja.Undefined()
		})
		obj.Set("rmdir", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkWrite(rt, path)
			if err := os.Remove(path); err != nil {
				bridge.ThrowErr(rt, Name, "rmdir", err)
			}
			return goja.Undefined()
		})
		obj.Set("createReadStream", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkRead(rt, path)
			return newReadStream(rt, path)
		})
		obj.Set("createWriteStream", func(call goja.FunctionCall) goja.Value {
			path := arg(call, 0)
			policy.checkWrite(rt, path)
			return newWriteStream(rt, path)
		})
		return obj, nil
	})
}

func arg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}

// newReadStream adapts the teacher's Readable push/read buffering idiom
// (internal/modules/stream/stream.go) into a simple blocking chunked reader
// object, matching spec.md §5: no suspension points, just blocking I/O.
func newReadStream(rt *goja.Runtime, path string) *goja.Object {
	obj := rt.NewObject()
	f, err := os.Open(path)
	if err != nil {
		bridge.ThrowErr(rt, Name, "createReadStream", err)
	}
	r := bufio.NewReaderSize(f, 64*1024)
	obj.Set("read", func(call goja.FunctionCall) goja.Value {
		size := 65536
		if len(call.Arguments) > 0 {
			size = int(call.Arguments[0].ToInteger())
		}
		buf := make([]byte, size)
		n, err := r.Read(buf)
		if n == 0 && err == io.EOF {
			return goja.Null()
		}
		if err != nil && err != io.EOF {
			bridge.ThrowErr(rt, Name, "readStream.read", err)
		}
		return rt.ToValue(string(buf[:n]))
	})
	obj.Set("close", func(call goja.FunctionCall) goja.Value {
		f.Close()
		return goja.Undefined()
	})
	return obj
}

func newWriteStream(rt *goja.Runtime, path string) *goja.Object {
	obj := rt.NewObject()
	f, err := os.Create(path)
	if err != nil {
		bridge.ThrowErr(rt, Name, "createWriteStream", err)
	}
	w := bufio.NewWriterSize(f, 64*1024)
	obj.Set("write", func(call goja.FunctionCall) goja.Value {
		data := arg(call, 0)
		if _, err := w.WriteString(data); err != nil {
			bridge.ThrowErr(rt, Name, "writeStream.write", err)
		}
		return goja.Undefined()
	})
	obj.Set("end", func(call goja.FunctionCall) goja.Value {
		if err := w.Flush(); err != nil {
			bridge.ThrowErr(rt, Name, "writeStream.end", err)
		}
		if err := f.Close(); err != nil {
			bridge.ThrowErr(rt, Name, "writeStream.end", err)
		}
		return goja.Undefined()
	})
	return obj
}
