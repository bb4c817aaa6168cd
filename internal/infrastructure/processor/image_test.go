package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"social-publisher/internal/domain/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		policy dto.CropPolicy
		want   image.Rectangle
		crop   bool
	}{
		{"wide to square", 200, 100, dto.CropSquare, image.Rect(50, 0, 150, 100), true},
		{"tall to square", 100, 300, dto.CropSquare, image.Rect(0, 100, 100, 200), true},
		{"square to portrait", 100, 100, dto.CropPortrait, image.Rect(10, 0, 90, 100), true},
		{"square to landscape", 191, 191, dto.CropLandscape, image.Rect(0, 45, 191, 145), true},
		{"already square", 120, 120, dto.CropSquare, image.Rect(0, 0, 120, 120), false},
		{"already portrait", 400, 500, dto.CropPortrait, image.Rect(0, 0, 400, 500), false},
		{"no crop", 300, 100, dto.CropNone, image.Rect(0, 0, 300, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CropRect(image.Rect(0, 0, tt.w, tt.h), tt.policy)
			assert.Equal(t, tt.crop, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCropRectIsCentered(t *testing.T) {
	got, ok := CropRect(image.Rect(0, 0, 301, 100), dto.CropSquare)
	require.True(t, ok)

	left := got.Min.X
	right := 301 - got.Max.X
	assert.Equal(t, 100, got.Dx())
	assert.LessOrEqual(t, right-left, 1)
	assert.GreaterOrEqual(t, right-left, 0)
}

func TestNormalizeCropsAndEncodesJPEG(t *testing.T) {
	out, err := Normalize(pngBytes(t, 200, 100), dto.CropSquare)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestNormalizeMatchingRatioKeepsDimensions(t *testing.T) {
	out, err := Normalize(pngBytes(t, 80, 100), dto.CropPortrait)
	require.NoError(t, err)

	w, h := decodedSize(t, out)
	assert.Equal(t, 80, w)
	assert.Equal(t, 100, h)

	again, err := Normalize(out, dto.CropPortrait)
	require.NoError(t, err)
	w2, h2 := decodedSize(t, again)
	assert.Equal(t, w, w2)
	assert.Equal(t, h, h2)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), dto.CropNone)
	assert.Error(t, err)
}
