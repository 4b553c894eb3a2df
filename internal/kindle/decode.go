package kindle

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw clippings bytes into a string. Kindle exports are UTF-8
// with a BOM on modern firmware and Latin-1 on some legacy devices, so we
// try UTF-8 first and fall back to Latin-1 instead of failing on decode
// ambiguity.
func Decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode clippings content: %w", err)
	}
	return string(decoded), nil
}

// ReadFile reads and decodes a clippings file from disk.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read clippings file: %w", err)
	}
	return Decode(raw)
}
