package globals

import (
	"unicode/utf8"

	"github.com/rizqme/hype/internal/herrors"
)

// textEncodingAliases maps every label name the TextDecoder constructor
// accepts to its canonical encoding name. Only utf-8 is actually decodable
// today (Decode rejects the rest); the table still recognizes the others so
// callers get a clear "not supported" error instead of "invalid label".
var textEncodingAliases = map[string]string{
	"utf-8": "utf-8", "utf8": "utf-8", "UTF-8": "utf-8", "UTF8": "utf-8",
	"utf-16": "utf-16", "utf16": "utf-16", "UTF-16": "utf-16", "UTF16": "utf-16",
	"utf-16be": "utf-16be", "UTF-16BE": "utf-16be",
	"utf-16le": "utf-16le", "UTF-16LE": "utf-16le",
	"latin1": "iso-8859-1", "iso-8859-1": "iso-8859-1", "ISO-8859-1": "iso-8859-1",
}

// TextEncoder backs the script-visible TextEncoder global: UTF-8 is the only
// encoding the Encoding API allows it to produce, so encode is just a byte
// cast.
type TextEncoder struct{}

type TextEncoderConstructor struct{}

func (tec *TextEncoderConstructor) New() *TextEncoder {
	return &TextEncoder{}
}

func (te *TextEncoder) Encoding() string {
	return "utf-8"
}

func (te *TextEncoder) Encode(input string) []byte {
	return []byte(input)
}

// EncodeInto writes as much of source's UTF-8 bytes into destination as fit,
// returning the UTF-16 code units read and bytes written per the Encoding
// API's encodeInto contract.
func (te *TextEncoder) EncodeInto(source string, destination []byte) map[string]int {
	encoded := []byte(source)
	written := copy(destination, encoded)

	read := 0
	for i := 0; i < written; {
		r, size := utf8.DecodeRune(encoded[i:])
		if size == 0 {
			break
		}
		if r >= 0x10000 {
			read += 2 // a surrogate pair in UTF-16
		} else {
			read++
		}
		i += size
	}
	return map[string]int{"read": read, "written": written}
}

// TextDecoder backs the script-visible TextDecoder global.
type TextDecoder struct {
	encoding  string
	fatal     bool
	ignoreBOM bool
}

type TextDecoderConstructor struct{}

type TextDecoderOptions struct {
	Fatal     bool
	IgnoreBOM bool
}

func (tdc *TextDecoderConstructor) New(label string, options ...TextDecoderOptions) (*TextDecoder, error) {
	if label == "" {
		label = "utf-8"
	}
	canonical, ok := textEncodingAliases[label]
	if !ok {
		return nil, herrors.New(herrors.KindValidationError, "TextDecoder: unrecognized encoding label %q", label)
	}

	td := &TextDecoder{encoding: canonical}
	if len(options) > 0 {
		td.fatal = options[0].Fatal
		td.ignoreBOM = options[0].IgnoreBOM
	}
	return td, nil
}

// Decode converts input to a string. Only utf-8 is implemented; other
// recognized labels fail with a clear "not supported" error rather than
// silently mis-decoding.
func (td *TextDecoder) Decode(input []byte, options ...map[string]bool) (string, error) {
	if td.encoding != "utf-8" {
		return "", herrors.New(herrors.KindValidationError, "TextDecoder: encoding %q is not supported", td.encoding)
	}

	if !td.ignoreBOM && hasUTF8BOM(input) {
		input = input[3:]
	}
	if td.fatal && !utf8.Valid(input) {
		return "", herrors.New(herrors.KindValidationError, "TextDecoder: input is not valid UTF-8")
	}
	return string(input), nil
}

func hasUTF8BOM(b []byte) bool {
	return len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF
}

func (td *TextDecoder) Encoding() string { return td.encoding }
func (td *TextDecoder) Fatal() bool      { return td.fatal }
func (td *TextDecoder) IgnoreBOM() bool  { return td.ignoreBOM }
