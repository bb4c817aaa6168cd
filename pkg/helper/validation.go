package helper

import (
	"net/url"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

func GetMimeTypeFromExtension(filename string) string {
	if mimeType, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mimeType
	}
	return "application/octet-stream"
}

func IsImageFile(filename string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsPublicURL reports whether raw is an absolute http or https URL.
func IsPublicURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
