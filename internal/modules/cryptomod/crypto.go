// Package cryptomod implements the fixed `crypto` built-in module: hashing,
// HMAC, secure random, UUIDv4, base64/hex, bcrypt, constant-time compare.
//
// No third-party hash/HMAC/UUID library appears anywhere in the retrieved
// example pack, so these operations go straight to the standard library
// (crypto/sha256, crypto/hmac, crypto/rand, etc. — exactly what the
// ecosystem itself reaches for here); golang.org/x/crypto/bcrypt is the one
// piece with no stdlib equivalent and is wired in for that operation.
package cryptomod

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/dop251/goja"
	"golang.org/x/crypto/bcrypt"

	"github.com/rizqme/hype/internal/bridge"
	"github.com/rizqme/hype/internal/herrors"
)

const Name = "crypto"

func Install(reg *bridge.Registry) {
	reg.Register(Name, func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		obj.Set("hash", func(call goja.FunctionCall) goja.Value {
			algo := strArg(call, 0)
			data := strArg(call, 1)
			h, err := hasher(algo)
			if err != nil {
				bridge.ThrowErr(rt, Name, "hash", err)
			}
			h.Write([]byte(data))
			return rt.ToValue(hex.EncodeToString(h.Sum(nil)))
		})
		obj.Set("hmac", func(call goja.FunctionCall) goja.Value {
			algo := strArg(call, 0)
			key := strArg(call, 1)
			data := strArg(call, 2)
			var newHash func() hash.Hash
			switch algo {
			case "sha256":
				newHash = sha256.New
			case "sha512":
				newHash = sha512.New
			case "sha1":
				newHash = sha1.New
			default:
				bridge.Throw(rt, herrors.KindValidationError, "crypto.hmac: unsupported algorithm %q", algo)
			}
			mac := hmac.New(newHash, []byte(key))
			mac.Write([]byte(data))
			return rt.ToValue(hex.EncodeToString(mac.Sum(nil)))
		})
		obj.Set("randomBytes", func(call goja.FunctionCall) goja.Value {
			n := int(call.Arguments[0].ToInteger())
			buf := make([]byte, n)
			if _, err := rand.Read(buf); err != nil {
				bridge.ThrowErr(rt, Name, "randomBytes", err)
			}
			return rt.ToValue(hex.EncodeToString(buf))
		})
		obj.Set("uuid", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(uuidv4())
		})
		obj.Set("base64Encode", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(base64.StdEncoding.EncodeToString([]byte(strArg(call, 0))))
		})
		obj.Set("base64Decode", func(call goja.FunctionCall) goja.Value {
			data, err := base64.StdEncoding.DecodeString(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "base64Decode", err)
			}
			return rt.ToValue(string(data))
		})
		obj.Set("hexEncode", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(hex.EncodeToString([]byte(strArg(call, 0))))
		})
		obj.Set("hexDecode", func(call goja.FunctionCall) goja.Value {
			data, err := hex.DecodeString(strArg(call, 0))
			if err != nil {
				bridge.ThrowErr(rt, Name, "hexDecode", err)
			}
			return rt.ToValue(string(data))
		})
		obj.Set("bcryptHash", func(call goja.FunctionCall) goja.Value {
			cost := bcrypt.DefaultCost
			if len(call.Arguments) > 1 {
				cost = int(call.Arguments[1].ToInteger())
			}
			out, err := bcrypt.GenerateFromPassword([]byte(strArg(call, 0)), cost)
			if err != nil {
				bridge.ThrowErr(rt, Name, "bcryptHash", err)
			}
			return rt.ToValue(string(out))
		})
		obj.Set("bcryptCompare", func(call goja.FunctionCall) goja.Value {
			err := bcrypt.CompareHashAndPassword([]byte(strArg(call, 0)), []byte(strArg(call, 1)))
			return rt.ToValue(err == nil)
		})
		obj.Set("constantTimeCompare", func(call goja.FunctionCall) goja.Value {
			a := []byte(strArg(call, 0))
			b := []byte(strArg(call, 1))
			return rt.ToValue(len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1)
		})
		return obj, nil
	})
}

func hasher(algo string) (hash.Hash, error) {
	switch algo {
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algo)
	}
}

func uuidv4() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func strArg(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}
