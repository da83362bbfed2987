package globals

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/rizqme/hype/internal/herrors"
)

// Buffer is the backing store for the script-visible Buffer global (globals.go
// wraps it into a goja object); it holds a plain byte slice and offers a
// subset of Node's Buffer API: alloc/from/concat construction, string/hex/
// base64 encoding, slice/fill/indexOf/equals, and copy plus the
// readUInt*/writeUInt* family. wrapBuffer exposes toString, length, fill,
// slice, indexOf and equals to scripts; copy and the readUInt*/writeUInt*
// methods are not exposed on the script-visible object.
type Buffer struct {
	bytes []byte
}

// BufferConstructor backs the static `Buffer.alloc`/`Buffer.from`/... methods
// goja wires up as properties of the Buffer constructor function.
type BufferConstructor struct{}

// Alloc returns a zero-length-or-fill-byte buffer of size bytes. fill may be
// an integer byte value or a repeating string pattern; anything else leaves
// the buffer zeroed, matching Node's lenient behavior.
func (bc *BufferConstructor) Alloc(size int, fill ...interface{}) *Buffer {
	buf := &Buffer{bytes: make([]byte, size)}
	if len(fill) == 0 || fill[0] == nil {
		return buf
	}

	switch v := fill[0].(type) {
	case string:
		fillPattern(buf.bytes, v)
	default:
		if b, ok := coerceByte(v); ok {
			for i := range buf.bytes {
				buf.bytes[i] = b
			}
		}
	}
	return buf
}

// AllocUnsafe returns an uninitialized buffer of size bytes.
func (bc *BufferConstructor) AllocUnsafe(size int) *Buffer {
	return &Buffer{bytes: make([]byte, size)}
}

// From builds a buffer from a string (with an optional encoding), an
// existing byte slice, a numeric array, or another Buffer. Unrecognized
// inputs fall back to an empty buffer rather than erroring, since goja may
// hand this function its own wrapped types.
func (bc *BufferConstructor) From(input interface{}, encoding ...string) (*Buffer, error) {
	switch v := input.(type) {
	case string:
		enc := "utf8"
		if len(encoding) > 0 {
			enc = encoding[0]
		}
		return bc.fromString(v, enc)
	case *Buffer:
		return &Buffer{bytes: append([]byte(nil), v.bytes...)}, nil
	case []byte:
		return &Buffer{bytes: append([]byte(nil), v...)}, nil
	case nil:
		return &Buffer{bytes: []byte{}}, nil
	default:
		if data, ok := numericSliceToBytes(v); ok {
			return &Buffer{bytes: data}, nil
		}
		return &Buffer{bytes: []byte{}}, nil
	}
}

// Concat joins a list of buffers, truncating to totalLength when given.
func (bc *BufferConstructor) Concat(list []*Buffer, totalLength ...int) *Buffer {
	limit := 0
	if len(totalLength) > 0 {
		limit = totalLength[0]
	} else {
		for _, buf := range list {
			if buf != nil {
				limit += len(buf.bytes)
			}
		}
	}

	out := make([]byte, 0, limit)
	for _, buf := range list {
		if buf == nil || len(out) >= limit {
			continue
		}
		n := len(buf.bytes)
		if len(out)+n > limit {
			n = limit - len(out)
		}
		out = append(out, buf.bytes[:n]...)
	}
	return &Buffer{bytes: out}
}

// IsBuffer reports whether obj is a *Buffer.
func (bc *BufferConstructor) IsBuffer(obj interface{}) bool {
	_, ok := obj.(*Buffer)
	return ok
}

// ByteLength returns how many bytes str would occupy under encoding.
func (bc *BufferConstructor) ByteLength(str string, encoding ...string) int {
	switch encodingOrDefault(encoding) {
	case "hex":
		return len(str) / 2
	case "base64":
		return base64.StdEncoding.DecodedLen(len(str))
	default:
		return len(str)
	}
}

func (bc *BufferConstructor) fromString(s, encoding string) (*Buffer, error) {
	switch encoding {
	case "hex":
		data, err := hex.DecodeString(s)
		if err != nil {
			return nil, herrors.Wrap(herrors.KindValidationError, err, "Buffer.from: invalid hex string")
		}
		return &Buffer{bytes: data}, nil
	case "base64":
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, herrors.Wrap(herrors.KindValidationError, err, "Buffer.from: invalid base64 string")
		}
		return &Buffer{bytes: data}, nil
	default:
		return &Buffer{bytes: []byte(s)}, nil
	}
}

// ToString renders the buffer's bytes under encoding ("utf8" by default).
func (b *Buffer) ToString(encoding ...string) string {
	switch encodingOrDefault(encoding) {
	case "hex":
		return hex.EncodeToString(b.bytes)
	case "base64":
		return base64.StdEncoding.EncodeToString(b.bytes)
	default:
		return string(b.bytes)
	}
}

// Length returns the number of bytes held.
func (b *Buffer) Length() int {
	return len(b.bytes)
}

// Fill overwrites bytes[start:end] with value, a byte or a repeating string.
func (b *Buffer) Fill(value interface{}, bounds ...int) *Buffer {
	start, end := 0, len(b.bytes)
	if len(bounds) > 0 {
		start = bounds[0]
	}
	if len(bounds) > 1 {
		end = bounds[1]
	}
	if end > len(b.bytes) {
		end = len(b.bytes)
	}

	switch v := value.(type) {
	case string:
		fillPattern(b.bytes[start:end], v)
	default:
		if bv, ok := coerceByte(v); ok {
			for i := start; i < end; i++ {
				b.bytes[i] = bv
			}
		}
	}
	return b
}

// Slice returns a new Buffer sharing the backing array of bytes[start:end].
func (b *Buffer) Slice(bounds ...int) *Buffer {
	start, end := 0, len(b.bytes)
	if len(bounds) > 0 {
		start = bounds[0]
	}
	if len(bounds) > 1 {
		end = bounds[1]
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.bytes) {
		end = len(b.bytes)
	}
	return &Buffer{bytes: b.bytes[start:end]}
}

// Copy copies this buffer's bytes[sourceStart:sourceEnd] into target
// starting at targetStart, returning how many bytes were copied.
func (b *Buffer) Copy(target *Buffer, bounds ...int) int {
	targetStart, sourceStart, sourceEnd := 0, 0, len(b.bytes)
	if len(bounds) > 0 {
		targetStart = bounds[0]
	}
	if len(bounds) > 1 {
		sourceStart = bounds[1]
	}
	if len(bounds) > 2 {
		sourceEnd = bounds[2]
	}
	return copy(target.bytes[targetStart:], b.bytes[sourceStart:sourceEnd])
}

// IndexOf finds value (a string, byte, or *Buffer) starting at byteOffset, or -1.
func (b *Buffer) IndexOf(value interface{}, byteOffset ...int) int {
	offset := 0
	if len(byteOffset) > 0 {
		offset = byteOffset[0]
	}
	if offset > len(b.bytes) {
		return -1
	}

	switch v := value.(type) {
	case string:
		if idx := strings.Index(string(b.bytes[offset:]), v); idx >= 0 {
			return offset + idx
		}
		return -1
	case *Buffer:
		return indexOfSubslice(b.bytes, v.bytes, offset)
	default:
		if needle, ok := coerceByte(v); ok {
			for i := offset; i < len(b.bytes); i++ {
				if b.bytes[i] == needle {
					return i
				}
			}
		}
		return -1
	}
}

func indexOfSubslice(haystack, needle []byte, offset int) int {
	if len(needle) == 0 {
		return offset
	}
	for i := offset; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

// Equals reports byte-for-byte equality with other.
func (b *Buffer) Equals(other *Buffer) bool {
	return other != nil && string(b.bytes) == string(other.bytes)
}

func (b *Buffer) WriteUInt8(value uint8, offset int) int {
	if offset >= len(b.bytes) {
		return offset
	}
	b.bytes[offset] = value
	return offset + 1
}

func (b *Buffer) WriteUInt16LE(value uint16, offset int) int {
	if offset+1 >= len(b.bytes) {
		return offset
	}
	b.bytes[offset] = byte(value)
	b.bytes[offset+1] = byte(value >> 8)
	return offset + 2
}

func (b *Buffer) WriteUInt32LE(value uint32, offset int) int {
	if offset+3 >= len(b.bytes) {
		return offset
	}
	for i := 0; i < 4; i++ {
		b.bytes[offset+i] = byte(value >> (8 * i))
	}
	return offset + 4
}

func (b *Buffer) ReadUInt8(offset int) uint8 {
	if offset >= len(b.bytes) {
		return 0
	}
	return b.bytes[offset]
}

func (b *Buffer) ReadUInt16LE(offset int) uint16 {
	if offset+1 >= len(b.bytes) {
		return 0
	}
	return uint16(b.bytes[offset]) | uint16(b.bytes[offset+1])<<8
}

func (b *Buffer) ReadUInt32LE(offset int) uint32 {
	if offset+3 >= len(b.bytes) {
		return 0
	}
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(b.bytes[offset+i]) << (8 * i)
	}
	return v
}

func fillPattern(dst []byte, pattern string) {
	if len(pattern) == 0 {
		return
	}
	for i := range dst {
		dst[i] = pattern[i%len(pattern)]
	}
}

// coerceByte narrows the handful of numeric types goja.Export() produces
// (int, int64, float64) down to a single byte value.
func coerceByte(v interface{}) (byte, bool) {
	switch n := v.(type) {
	case int:
		return byte(n), true
	case int64:
		return byte(n), true
	case float64:
		return byte(n), true
	default:
		return 0, false
	}
}

// numericSliceToBytes converts any of goja's exported array shapes
// ([]interface{}, []int, []int64, []float64) into raw bytes.
func numericSliceToBytes(v interface{}) ([]byte, bool) {
	switch arr := v.(type) {
	case []interface{}:
		out := make([]byte, len(arr))
		for i, item := range arr {
			b, _ := coerceByte(item)
			out[i] = b
		}
		return out, true
	case []int:
		out := make([]byte, len(arr))
		for i, n := range arr {
			out[i] = byte(n)
		}
		return out, true
	case []int64:
		out := make([]byte, len(arr))
		for i, n := range arr {
			out[i] = byte(n)
		}
		return out, true
	case []float64:
		out := make([]byte, len(arr))
		for i, n := range arr {
			out[i] = byte(n)
		}
		return out, true
	default:
		return nil, false
	}
}

func encodingOrDefault(encoding []string) string {
	if len(encoding) > 0 {
		return encoding[0]
	}
	return "utf8"
}
