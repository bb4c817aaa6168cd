package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageExtensions(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetMimeTypeFromExtension("photo.JPG"))
	assert.Equal(t, "image/webp", GetMimeTypeFromExtension("a/b/c.webp"))
	assert.Equal(t, "application/octet-stream", GetMimeTypeFromExtension("clip.mp4"))

	assert.True(t, IsImageFile("cover.png"))
	assert.False(t, IsImageFile("notes.txt"))
	assert.False(t, IsImageFile("noext"))
}

func TestIsPublicURL(t *testing.T) {
	assert.True(t, IsPublicURL("https://cdn.example.com/a.jpg"))
	assert.True(t, IsPublicURL("http://localhost:3000/static/x.jpg"))
	assert.False(t, IsPublicURL("ftp://example.com/a.jpg"))
	assert.False(t, IsPublicURL("/relative/a.jpg"))
	assert.False(t, IsPublicURL("://bad"))
}
