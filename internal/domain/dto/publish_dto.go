package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PublishOutcome is the result for one requested destination.
type PublishOutcome struct {
	DestinationID string          `json:"destination_id"`
	Kind          DestinationKind `json:"kind"`
	Success       bool            `json:"success"`
	PostID        string          `json:"post_id,omitempty"`
	ErrorCode     string          `json:"error_code,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// PublishJob is the queued form of a batch.
type PublishJob struct {
	JobID        string               `json:"job_id"`
	OwnerID      string               `json:"owner_id"`
	BatchKey     string               `json:"batch_key"`
	Caption      string               `json:"caption"`
	Destinations []DestinationRequest `json:"destinations"`
	Media        []MediaItemDTO       `json:"media,omitempty"`
	HostedURLs   []string             `json:"hosted_urls,omitempty"`
}

type PublishJobResult struct {
	JobID    string           `json:"job_id"`
	OwnerID  string           `json:"owner_id,omitempty"`
	Status   string           `json:"status"`
	Outcomes []PublishOutcome `json:"outcomes,omitempty"`
	Summary  string           `json:"summary,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// MediaItemDTO is the wire form of a MediaItem. Inline images travel as
// base64 (encoding/json does this for []byte).
type MediaItemDTO struct {
	FileID  string `json:"file_id,omitempty"`
	Inline  []byte `json:"inline_base64,omitempty"`
	Crop    string `json:"crop,omitempty"`
	AltText string `json:"alt_text,omitempty"`
}

type DestinationDTO struct {
	Kind          string `json:"kind"`
	IntegrationID string `json:"integration_id"`
	// Destination is the prefixed form, e.g. "meta_ig:42"; used when Kind is empty.
	Destination string `json:"destination,omitempty"`
}

type PublishRequestDTO struct {
	BatchKey     string           `json:"batch_key"`
	Caption      string           `json:"caption"`
	Destinations []DestinationDTO `json:"destinations"`
	Media        []MediaItemDTO   `json:"media"`
	URLs         []string         `json:"urls"`
}

type PublishResponseDTO struct {
	BatchKey string           `json:"batch_key"`
	Outcomes []PublishOutcome `json:"outcomes"`
	Summary  string           `json:"summary"`
}

type EnqueueResponseDTO struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func (m MediaItemDTO) ToMediaItem() (MediaItem, error) {
	if m.FileID == "" && len(m.Inline) == 0 {
		return MediaItem{}, fmt.Errorf("media item needs file_id or inline_base64")
	}
	if m.FileID != "" && len(m.Inline) > 0 {
		return MediaItem{}, fmt.Errorf("media item cannot have both file_id and inline_base64")
	}
	crop, err := ParseCropPolicy(m.Crop)
	if err != nil {
		return MediaItem{}, err
	}

	item := MediaItem{FileID: m.FileID, Inline: m.Inline}
	if crop != CropNone || m.AltText != "" {
		item.Edit = &EditInstructions{Crop: crop, AltText: m.AltText}
	}
	return item, nil
}

// UnmarshalJSON also accepts the bare prefixed string "meta_ig:42".
func (d *DestinationDTO) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = DestinationDTO{Destination: s}
		return nil
	}
	type plain DestinationDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DestinationDTO(p)
	return nil
}

func (d DestinationDTO) ToRequest() (DestinationRequest, error) {
	if d.Kind == "" {
		return ParseDestination(d.Destination)
	}
	kind, err := ParseKind(d.Kind)
	if err != nil {
		return DestinationRequest{}, err
	}
	if d.IntegrationID == "" {
		return DestinationRequest{}, fmt.Errorf("destination %s has no integration_id", d.Kind)
	}
	return DestinationRequest{Kind: kind, IntegrationID: d.IntegrationID}, nil
}

func ToMediaItems(items []MediaItemDTO) ([]MediaItem, error) {
	out := make([]MediaItem, 0, len(items))
	for i, m := range items {
		item, err := m.ToMediaItem()
		if err != nil {
			return nil, fmt.Errorf("media[%d]: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func ToDestinationRequests(items []DestinationDTO) ([]DestinationRequest, error) {
	out := make([]DestinationRequest, 0, len(items))
	for i, d := range items {
		req, err := d.ToRequest()
		if err != nil {
			return nil, fmt.Errorf("destinations[%d]: %w", i, err)
		}
		out = append(out, req)
	}
	return out, nil
}
