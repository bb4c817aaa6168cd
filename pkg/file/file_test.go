package file

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, "social/batch-1/0.jpg", MakeKey("social", "batch-1", 0))
	assert.Equal(t, MakeKey("social", "b", 3), MakeKey("social", "b", 3))
	assert.Equal(t, "social/3f2a-9c_b/0.jpg", MakeKey("social", "3f2a-9c_b", 0))
}

func TestMakeKeyDistinctBatchesNeverCollide(t *testing.T) {
	keys := []string{"ab", "a..b", "x/y", "x//y", "x/../y", "..", ".", "", "/../etc/", "~YWI", "YWI"}

	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		p := MakeKey("social", k, 0)
		if prev, ok := seen[p]; ok {
			t.Fatalf("batch keys %q and %q share path %s", prev, k, p)
		}
		seen[p] = k

		assert.True(t, strings.HasPrefix(p, "social/"), p)
		assert.Equal(t, 3, len(strings.Split(p, "/")), p)
	}
}

func TestContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	assert.Equal(t, "image/jpeg", ContentType("image/jpeg; charset=binary", nil))
	assert.Equal(t, "image/png", ContentType("", png))
	assert.Equal(t, "image/png", ContentType("application/octet-stream", png))
	assert.True(t, IsImageContentType("IMAGE/WEBP"))
	assert.False(t, IsImageContentType("application/pdf"))
}
