package utils

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether the provided byte slice cannot be embedded as text.
// Data that is not valid UTF-8 or contains a NUL byte is treated as binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}
