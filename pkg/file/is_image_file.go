package file

import (
	"mime"
	"net/http"
	"strings"
)

// ContentType returns the declared type when it parses, otherwise sniffs data.
func ContentType(declared string, data []byte) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}

func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
