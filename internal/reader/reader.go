// Package reader loads document files as indexable text, selecting a
// decoding strategy by file extension.
package reader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Read returns the text content of the file at path. JSON documents are
// re-indented so their structure stays readable once chunked; everything
// else is treated as plain text. Content that is not valid UTF-8 falls back
// to a Latin-1 interpretation rather than failing.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return "", fmt.Errorf("decode json document %s: %w", path, err)
		}
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("reformat json document %s: %w", path, err)
		}
		return string(pretty), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeLatin1(data), nil
}

// decodeLatin1 widens each byte to the rune with the same code point.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
