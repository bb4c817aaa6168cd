package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckImageFile(t *testing.T) {
	assert.NoError(t, checkImageFile("photos/cover.JPG"))

	err := checkImageFile("clips/service.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `".mp4"`)
	assert.NotContains(t, err.Error(), "octet-stream")

	err = checkImageFile("README")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `""`)
}
