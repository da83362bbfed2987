package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/herrors"
)

func TestGetOrLoadLoadsOnce(t *testing.T) {
	r := New()
	calls := 0
	load := func(canon string) (interface{}, error) {
		calls++
		return "exports-for-" + canon, nil
	}
	resolve := func() (string, error) { return "/a.js", nil }

	v1, err := r.GetOrLoad("./a", "/", resolve, load)
	require.NoError(t, err)
	v2, err := r.GetOrLoad("./a", "/", resolve, load)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadDifferentAliasesShareCanonical(t *testing.T) {
	r := New()
	calls := 0
	load := func(canon string) (interface{}, error) {
		calls++
		return "shared", nil
	}

	_, err := r.GetOrLoad("./a", "/x", func() (string, error) { return "/shared.js", nil }, load)
	require.NoError(t, err)
	_, err = r.GetOrLoad("../a", "/x/y", func() (string, error) { return "/shared.js", nil }, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestGetOrLoadPropagatesResolveError(t *testing.T) {
	r := New()
	wantErr := herrors.ModuleNotFound("./missing", nil)
	_, err := r.GetOrLoad("./missing", "/", func() (string, error) { return "", wantErr }, nil)
	require.Error(t, err)
	assert.Equal(t, wantErr, err)
}

func TestGetOrLoadFailedModuleReturnsCachedError(t *testing.T) {
	r := New()
	wantErr := errors.New("boom")
	load := func(canon string) (interface{}, error) { return nil, wantErr }
	resolve := func() (string, error) { return "/broken.js", nil }

	_, err1 := r.GetOrLoad("./broken", "/", resolve, load)
	require.Error(t, err1)
	_, err2 := r.GetOrLoad("./broken", "/", resolve, load)
	require.Error(t, err2)
	assert.Equal(t, err1, err2)
}

func TestGetOrLoadDetectsCircularDependency(t *testing.T) {
	r := New()
	var loadA Loader
	loadA = func(canon string) (interface{}, error) {
		// re-entrant load of the same canonical key while it's still "Loading"
		return r.GetOrLoad("./a", "/", func() (string, error) { return "/a.js", nil }, loadA)
	}

	_, err := r.GetOrLoad("./a", "/", func() (string, error) { return "/a.js", nil }, loadA)
	require.Error(t, err)
	assert.True(t, herrors.IsKind(err, herrors.KindCircularDependency))
}

func TestRecordDependency(t *testing.T) {
	r := New()
	load := func(canon string) (interface{}, error) { return "x", nil }
	_, err := r.GetOrLoad("./a", "/", func() (string, error) { return "/a.js", nil }, load)
	require.NoError(t, err)

	r.RecordDependency("/a.js", "/b.js")
	found := false
	for _, m := range r.ListLoaded() {
		if m.Key == "/a.js" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, []string{"/b.js"}, r.byCanonical["/a.js"].Dependencies)
}

func TestSnapshotOnlyIncludesLoaded(t *testing.T) {
	r := New()
	loadOK := func(canon string) (interface{}, error) { return "ok-exports", nil }
	loadFail := func(canon string) (interface{}, error) { return nil, errors.New("fail") }

	_, err := r.GetOrLoad("./ok", "/", func() (string, error) { return "/ok.js", nil }, loadOK)
	require.NoError(t, err)
	_, err = r.GetOrLoad("./bad", "/", func() (string, error) { return "/bad.js", nil }, loadFail)
	require.Error(t, err)

	snap := r.Snapshot()
	assert.Equal(t, "ok-exports", snap["/ok.js"])
	assert.NotContains(t, snap, "/bad.js")
}
