package bridge

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/herrors"
)

func TestRegistryBuildUnknownModule(t *testing.T) {
	reg := NewRegistry()
	rt := goja.New()
	_, err := reg.Build("nope", rt)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindModuleNotFound))
}

func TestRegistryBuildWrapsFactoryError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("broken", func(rt *goja.Runtime) (goja.Value, error) {
		return nil, errors.New("init failed")
	})
	rt := goja.New()
	_, err := reg.Build("broken", rt)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindHostModuleError))
	assert.Contains(t, err.Error(), "broken.init")
}

func TestRegistryBuildSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register("greeter", func(rt *goja.Runtime) (goja.Value, error) {
		return rt.ToValue("hi"), nil
	})
	rt := goja.New()
	v, err := reg.Build("greeter", rt)
	require.NoError(t, err)
	assert.Equal(t, "hi", v.String())
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", nil)
	reg.Register("b", nil)
	names := reg.Names()
	assert.True(t, names["a"])
	assert.True(t, names["b"])
	assert.False(t, names["c"])
}

func TestRegistryReRegisterOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Register("x", func(rt *goja.Runtime) (goja.Value, error) { return rt.ToValue(1), nil })
	reg.Register("x", func(rt *goja.Runtime) (goja.Value, error) { return rt.ToValue(2), nil })
	rt := goja.New()
	v, err := reg.Build("x", rt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.ToInteger())
}

func TestNewObject(t *testing.T) {
	rt := goja.New()
	obj := NewObject(rt, map[string]interface{}{"answer": 42})
	assert.Equal(t, int64(42), obj.Get("answer").ToInteger())
}

func TestThrowPanicsWithGoError(t *testing.T) {
	rt := goja.New()
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	Throw(rt, herrors.KindValidationError, "bad: %s", "oops")
}

func TestThrowErrPanics(t *testing.T) {
	rt := goja.New()
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	ThrowErr(rt, "fs", "readFileSync", errors.New("no such file"))
}
