package dto

import "fmt"

// CropPolicy is one of the fixed aspect-ratio presets.
type CropPolicy string

const (
	CropNone      CropPolicy = "none"
	CropSquare    CropPolicy = "square"
	CropLandscape CropPolicy = "landscape"
	CropPortrait  CropPolicy = "portrait"
)

// cropRatios holds width/height per preset.
var cropRatios = map[CropPolicy]float64{
	CropSquare:    1.0,
	CropLandscape: 1.91,
	CropPortrait:  0.8,
}

// Ratio returns the target width/height ratio. ok is false for CropNone.
func (p CropPolicy) Ratio() (ratio float64, ok bool) {
	ratio, ok = cropRatios[p]
	return ratio, ok
}

func ParseCropPolicy(s string) (CropPolicy, error) {
	switch p := CropPolicy(s); p {
	case "", CropNone:
		return CropNone, nil
	case CropSquare, CropLandscape, CropPortrait:
		return p, nil
	default:
		return "", fmt.Errorf("unknown crop policy %q", s)
	}
}

type EditInstructions struct {
	Crop    CropPolicy
	AltText string
}

// MediaItem references one source image: either FileID in the media store or
// Inline pre-encoded bytes.
type MediaItem struct {
	FileID string
	Inline []byte
	Edit   *EditInstructions
}

func (m MediaItem) IsInline() bool {
	return len(m.Inline) > 0
}

func (m MediaItem) Crop() CropPolicy {
	if m.Edit == nil || m.Edit.Crop == "" {
		return CropNone
	}
	return m.Edit.Crop
}

func (m MediaItem) AltText() string {
	if m.Edit == nil {
		return ""
	}
	return m.Edit.AltText
}

// NormalizedMedia is a publicly fetchable URL at its batch position.
type NormalizedMedia struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
	AltText  string `json:"alt_text,omitempty"`
}
