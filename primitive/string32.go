package primitive

import (
	"bytes"
	"unicode/utf8"

	"github.com/32bitkid/blam/errs"
)

// String32 is a 32-byte NUL-terminated string buffer. Byte 31 is always
// zero, every byte after the first NUL is zero and the bytes before it are
// valid UTF-8.
type String32 [32]byte

// ParseString32 validates a raw 32-byte buffer and returns a copy with the
// bytes after the terminator cleared.
func ParseString32(raw []byte) (String32, error) {
	var s String32
	if len(raw) < len(s) {
		return s, errs.Malformedf("string32 needs %d bytes, have %d", len(s), len(raw))
	}
	n := bytes.IndexByte(raw[:len(s)], 0)
	if n < 0 {
		return s, errs.Malformed("string32 is not null-terminated")
	}
	if !utf8.Valid(raw[:n]) {
		return s, errs.Malformed("string32 is not valid UTF-8")
	}
	copy(s[:n], raw[:n])
	return s, nil
}

// NewString32 builds a String32 from s, which must fit in 31 bytes.
func NewString32(str string) (String32, error) {
	var s String32
	if len(str) > len(s)-1 {
		return s, errs.Invalidf("string %q exceeds %d bytes", str, len(s)-1)
	}
	if !utf8.ValidString(str) {
		return s, errs.Invalid("string is not valid UTF-8")
	}
	if bytes.IndexByte([]byte(str), 0) >= 0 {
		return s, errs.Invalid("string contains a null byte")
	}
	copy(s[:], str)
	return s, nil
}

// MustString32 is NewString32 for constants; it panics on invalid input.
func MustString32(str string) String32 {
	s, err := NewString32(str)
	if err != nil {
		panic(err)
	}
	return s
}

func (s String32) String() string {
	n := bytes.IndexByte(s[:], 0)
	if n < 0 {
		n = len(s)
	}
	return string(s[:n])
}

// EqualFold compares s to name ignoring ASCII case.
func (s String32) EqualFold(name string) bool {
	return bytes.EqualFold([]byte(s.String()), []byte(name))
}
