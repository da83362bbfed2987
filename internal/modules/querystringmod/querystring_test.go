package querystringmod

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/bridge"
)

func newTestModule(t *testing.T) *goja.Runtime {
	t.Helper()
	rt := goja.New()
	reg := bridge.NewRegistry()
	Install(reg)
	mod, err := reg.Build(Name, rt)
	require.NoError(t, err)
	rt.Set("querystring", mod)
	return rt
}

func TestQuerystringParseSingleValues(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var q = querystring.parse("a=1&b=2");
		JSON.stringify(q);
	`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1","b":"2"}`, v.String())
}

func TestQuerystringParseRepeatedKeyBecomesArray(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`querystring.parse("a=1&a=2").a.length`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.ToInteger())
}

func TestQuerystringStringify(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`querystring.stringify({b: 2, a: 1})`)
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2", v.String())
}
