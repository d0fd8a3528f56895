package source

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw file bytes to a UTF-8 string. Valid UTF-8 (with
// or without a BOM) passes through unchanged; anything else is treated
// as Windows-1252, the usual legacy encoding of .cs files written by
// older Visual Studio versions.
func Decode(raw []byte) (text string, encoding string) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), "utf-8"
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// Windows-1252 maps every byte, so this is unreachable in
		// practice; fall back to a lossy UTF-8 interpretation.
		return string(raw), "utf-8"
	}
	return string(decoded), "windows-1252"
}
