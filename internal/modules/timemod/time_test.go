package timemod

import (
	"strconv"
	"testing"
	"time"

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
	rt.Set("time", mod)
	return rt
}

func TestTimeNowVariants(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`time.nowMs() > 0 && time.nowSec() > 0 && time.nowNs() > 0`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}

func TestTimeIsoFormat(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`time.iso()`)
	require.NoError(t, err)
	_, parseErr := time.Parse(time.RFC3339Nano, v.String())
	assert.NoError(t, parseErr)
}

func TestTimeFormatWithStrftime(t *testing.T) {
	rt := newTestModule(t)
	ms := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC).UnixMilli()
	v, err := rt.RunString(`time.format(` + strconv.FormatInt(ms, 10) + `, "%Y-%m-%d %H:%M:%S")`)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15 10:30:00", v.String())
}

func TestTimeParseRoundTrip(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`time.parse("2024-03-15 10:30:00", "%Y-%m-%d %H:%M:%S")`)
	require.NoError(t, err)
	expected := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, expected, v.ToInteger())
}

func TestTimeParseInvalidThrows(t *testing.T) {
	rt := newTestModule(t)
	_, err := rt.RunString(`time.parse("not a date", "%Y-%m-%d")`)
	require.Error(t, err)
}

func TestTimeComponents(t *testing.T) {
	rt := newTestModule(t)
	ms := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC).UnixMilli()
	v, err := rt.RunString(`
		var c = time.components(` + strconv.FormatInt(ms, 10) + `);
		JSON.stringify(c);
	`)
	require.NoError(t, err)
	assert.Contains(t, v.String(), `"year":2024`)
	assert.Contains(t, v.String(), `"month":3`)
	assert.Contains(t, v.String(), `"day":15`)
	assert.Contains(t, v.String(), `"hour":10`)
}

func TestTimeSleepBlocksApproximately(t *testing.T) {
	rt := newTestModule(t)
	start := time.Now()
	_, err := rt.RunString(`time.sleep(20)`)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTimeFormatDuration(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`time.formatDuration(1500)`)
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v.String())
}
