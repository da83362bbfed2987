package eventsmod

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
	rt.Set("events", mod)
	return rt
}

func TestEventEmitterOnAndEmit(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		var received = null;
		e.on("greet", function(name) { received = name; });
		e.emit("greet", "world");
		received;
	`)
	require.NoError(t, err)
	assert.Equal(t, "world", v.String())
}

func TestEventEmitterEmitReturnsFalseWithNoListeners(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		e.emit("nothing");
	`)
	require.NoError(t, err)
	assert.False(t, v.ToBoolean())
}

func TestEventEmitterOnceFiresOnlyOnce(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		var count = 0;
		e.once("tick", function() { count++; });
		e.emit("tick");
		e.emit("tick");
		count;
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ToInteger())
}

func TestEventEmitterRemoveListener(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		var count = 0;
		function handler() { count++; }
		e.on("tick", handler);
		e.emit("tick");
		e.off("tick", handler);
		e.emit("tick");
		count;
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ToInteger())
}

func TestEventEmitterListenerCountAndEventNames(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		e.on("a", function() {});
		e.on("a", function() {});
		e.on("b", function() {});
		JSON.stringify([e.listenerCount("a"), e.eventNames().sort()]);
	`)
	require.NoError(t, err)
	assert.Equal(t, `[2,["a","b"]]`, v.String())
}

func TestEventEmitterRemoveAllListeners(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var e = new events.EventEmitter();
		e.on("a", function() {});
		e.removeAllListeners();
		e.listenerCount("a");
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.ToInteger())
}

func TestEventEmitterNonFunctionListenerThrows(t *testing.T) {
	rt := newTestModule(t)
	_, err := rt.RunString(`
		var e = new events.EventEmitter();
		e.on("a", "not a function");
	`)
	require.Error(t, err)
}
