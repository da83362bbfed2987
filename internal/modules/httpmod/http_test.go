package httpmod

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizqme/hype/internal/bridge"
)

func newTestModule(t *testing.T, policy Policy) *goja.Runtime {
	t.Helper()
	rt := goja.New()
	reg := bridge.NewRegistry()
	InstallWithPolicy(reg, policy)
	mod, err := reg.Build(Name, rt)
	require.NoError(t, err)
	rt.Set("http", mod)
	return rt
}

func TestHttpGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	rt := newTestModule(t, Policy{})
	rt.Set("__url", srv.URL)
	v, err := rt.RunString(`
		var r = http.get(__url);
		JSON.stringify({status: r.status, ok: r.ok, body: r.body});
	`)
	require.NoError(t, err)
	assert.Equal(t, `{"status":200,"ok":true,"body":"hello"}`, v.String())
}

func TestHttpPostWithJSONBody(t *testing.T) {
	var receivedBody string
	var receivedContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		receivedContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rt := newTestModule(t, Policy{})
	rt.Set("__url", srv.URL)
	v, err := rt.RunString(`http.post(__url, {body: {a: 1}}).status;`)
	require.NoError(t, err)
	assert.Equal(t, int64(201), v.ToInteger())
	assert.Equal(t, `{"a":1}`, receivedBody)
	assert.Equal(t, "application/json", receivedContentType)
}

func TestHttpHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-value", r.Header.Get("X-Custom"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt := newTestModule(t, Policy{})
	rt.Set("__url", srv.URL)
	_, err := rt.RunString(`http.get(__url, {headers: {"X-Custom": "custom-value"}});`)
	require.NoError(t, err)
}

func TestHttpBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "secret", pass)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt := newTestModule(t, Policy{})
	rt.Set("__url", srv.URL)
	_, err := rt.RunString(`http.get(__url, {auth: {type: "basic", username: "alice", password: "secret"}});`)
	require.NoError(t, err)
}

func TestHttpPolicyDeniesDisallowedHost(t *testing.T) {
	rt := newTestModule(t, Policy{AllowNet: []string{"example.com"}})
	rt.Set("__url", "http://127.0.0.1:1/whatever")
	_, err := rt.RunString(`http.get(__url);`)
	require.Error(t, err)
}

func TestHttpPolicyAllowsAllowedHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)

	rt := newTestModule(t, Policy{AllowNet: []string{parsed.Hostname()}})
	rt.Set("__url", srv.URL)
	v, rerr := rt.RunString(`http.get(__url).status;`)
	require.NoError(t, rerr)
	assert.Equal(t, int64(200), v.ToInteger())
}

func TestHttpMissingURLThrows(t *testing.T) {
	rt := newTestModule(t, Policy{})
	_, err := rt.RunString(`http.get();`)
	require.Error(t, err)
}
