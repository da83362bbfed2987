package plugins

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPluginExposesNameAndVersion(t *testing.T) {
	rt := goja.New()
	p := &directPlugin{
		name:    "mathlib",
		version: "1.2.3",
		exports: map[string]interface{}{
			"add": func(a, b int) int { return a + b },
		},
	}

	obj := WrapPlugin(rt, p)
	rt.Set("mathlib", obj)

	v, err := rt.RunString(`mathlib.__pluginName`)
	require.NoError(t, err)
	assert.Equal(t, "mathlib", v.String())

	v, err = rt.RunString(`mathlib.__pluginVersion`)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
}

func TestWrapPluginExposesCallableExports(t *testing.T) {
	rt := goja.New()
	p := &directPlugin{
		name:    "mathlib",
		version: "1.0.0",
		exports: map[string]interface{}{
			"add": func(a, b int) int { return a + b },
		},
	}

	obj := WrapPlugin(rt, p)
	rt.Set("mathlib", obj)

	v, err := rt.RunString(`mathlib.add(2, 3)`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.ToInteger())
}

func TestWrapPluginWithNoExports(t *testing.T) {
	rt := goja.New()
	p := &directPlugin{name: "empty", version: "0.0.1", exports: map[string]interface{}{}}

	obj := WrapPlugin(rt, p)
	assert.Equal(t, "empty", obj.Get("__pluginName").String())
}
