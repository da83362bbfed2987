package globals

import (
	"encoding/base64"
	"strings"

	"github.com/rizqme/hype/internal/herrors"
)

// Btoa implements the script-visible btoa(): base64-encodes a string whose
// code points all fall in the Latin1 range, the same restriction browsers
// apply.
func Btoa(data string) (string, error) {
	raw := make([]byte, 0, len(data))
	for _, r := range data {
		if r > 0xFF {
			return "", herrors.New(herrors.KindValidationError, "btoa: string contains characters outside the Latin1 range")
		}
		raw = append(raw, byte(r))
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Atob implements the script-visible atob(): decodes a base64 string back
// into a Latin1 string, ignoring the whitespace browsers tolerate in
// base64 payloads.
func Atob(encoded string) (string, error) {
	trimmed := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, encoded)

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return "", herrors.Wrap(herrors.KindValidationError, err, "atob: input is not valid base64")
	}

	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
