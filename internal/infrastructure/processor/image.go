package processor

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"social-publisher/internal/domain/dto"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the fixed encoder quality of every delivered image.
const JPEGQuality = 90

// ratioTolerance treats ratios this close as equal so a matching source is
// never trimmed by a rounding pixel.
const ratioTolerance = 1e-3

// Decode reads an image and applies its EXIF orientation to the pixels.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image could not be decoded: %w", err)
	}
	return img, nil
}

// CropRect returns the centered rectangle of bounds that matches the policy
// ratio. ok is false when no crop is needed.
func CropRect(bounds image.Rectangle, policy dto.CropPolicy) (rect image.Rectangle, ok bool) {
	target, hasRatio := policy.Ratio()
	w, h := bounds.Dx(), bounds.Dy()
	if !hasRatio || w == 0 || h == 0 {
		return bounds, false
	}

	source := float64(w) / float64(h)
	if math.Abs(source-target) < ratioTolerance {
		return bounds, false
	}

	cw, ch := w, h
	if source > target {
		// too wide
		cw = int(math.Round(float64(h) * target))
	} else {
		ch = int(math.Round(float64(w) / target))
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	if cw == w && ch == h {
		return bounds, false
	}

	x0 := bounds.Min.X + (w-cw)/2
	y0 := bounds.Min.Y + (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch), true
}

// Crop applies the policy to img, returning img unchanged when no crop applies.
func Crop(img image.Image, policy dto.CropPolicy) image.Image {
	rect, ok := CropRect(img.Bounds(), policy)
	if !ok {
		return img
	}
	return imaging.Crop(img, rect)
}

// EncodeJPEG writes img as JPEG. No EXIF block is written.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("image could not be encoded: %w", err)
	}
	return buf.Bytes(), nil
}

// Normalize decodes data, crops it per policy and re-encodes it as JPEG.
func Normalize(data []byte, policy dto.CropPolicy) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(Crop(img, policy))
}
