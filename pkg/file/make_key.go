package file

import (
	"encoding/base64"
	"fmt"
	"path"
)

// MakeKey builds the object path of a normalized image. The same batch key
// and position always map to the same path and distinct batch keys never
// share a directory, so a rerun overwrites only its own batch.
func MakeKey(prefix, batchKey string, position int) string {
	return path.Join(prefix, batchSegment(batchKey), fmt.Sprintf("%d.jpg", position))
}

// batchSegment keeps [A-Za-z0-9_-] keys readable and encodes any other key
// as "~" + base64url. "~" never appears in a plain key.
func batchSegment(batchKey string) string {
	if isPlainKey(batchKey) {
		return batchKey
	}
	return "~" + base64.RawURLEncoding.EncodeToString([]byte(batchKey))
}

func isPlainKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
