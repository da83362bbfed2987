package cryptomod

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
	rt.Set("crypto", mod)
	return rt
}

func TestCryptoHashSHA256(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.hash("sha256", "hello")`)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", v.String())
}

func TestCryptoHashUnsupportedAlgorithm(t *testing.T) {
	rt := newTestModule(t)
	_, err := rt.RunString(`crypto.hash("md7", "hello")`)
	require.Error(t, err)
}

func TestCryptoHmac(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.hmac("sha256", "secret", "message")`)
	require.NoError(t, err)
	assert.Len(t, v.String(), 64)
}

func TestCryptoRandomBytesLength(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.randomBytes(16)`)
	require.NoError(t, err)
	assert.Len(t, v.String(), 32)
}

func TestCryptoUUIDFormat(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.uuid()`)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, v.String())
}

func TestCryptoBase64RoundTrip(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.base64Decode(crypto.base64Encode("round trip"))`)
	require.NoError(t, err)
	assert.Equal(t, "round trip", v.String())
}

func TestCryptoHexRoundTrip(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.hexDecode(crypto.hexEncode("round trip"))`)
	require.NoError(t, err)
	assert.Equal(t, "round trip", v.String())
}

func TestCryptoBcryptHashAndCompare(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`
		var hash = crypto.bcryptHash("my-password", 4);
		crypto.bcryptCompare(hash, "my-password") && !crypto.bcryptCompare(hash, "wrong-password");
	`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}

func TestCryptoConstantTimeCompare(t *testing.T) {
	rt := newTestModule(t)
	v, err := rt.RunString(`crypto.constantTimeCompare("abc", "abc") && !crypto.constantTimeCompare("abc", "abd")`)
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())
}
