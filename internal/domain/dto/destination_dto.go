package dto

import (
	"fmt"
	"strings"
)

type DestinationKind int

const (
	Instagram DestinationKind = iota + 1
	Facebook
)

const (
	instagramPrefix = "meta_ig"
	facebookPrefix  = "meta_fb"
)

func (k DestinationKind) String() string {
	switch k {
	case Instagram:
		return "instagram"
	case Facebook:
		return "facebook"
	default:
		return "unknown"
	}
}

func (k DestinationKind) prefix() string {
	if k == Instagram {
		return instagramPrefix
	}
	return facebookPrefix
}

func (k DestinationKind) MarshalText() ([]byte, error) {
	if k != Instagram && k != Facebook {
		return nil, fmt.Errorf("invalid destination kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *DestinationKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func ParseKind(s string) (DestinationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instagram", "ig", instagramPrefix:
		return Instagram, nil
	case "facebook", "fb", facebookPrefix:
		return Facebook, nil
	default:
		return 0, fmt.Errorf("unknown destination kind %q", s)
	}
}

// DestinationRequest pairs a platform family with an integration id. The same
// integration may be requested for both families.
type DestinationRequest struct {
	Kind          DestinationKind `json:"kind"`
	IntegrationID string          `json:"integration_id"`
}

// ParseDestination accepts the prefixed form "meta_ig:<id>" / "meta_fb:<id>".
func ParseDestination(s string) (DestinationRequest, error) {
	prefix, id, found := strings.Cut(s, ":")
	if !found || strings.TrimSpace(id) == "" {
		return DestinationRequest{}, fmt.Errorf("invalid destination %q", s)
	}
	kind, err := ParseKind(prefix)
	if err != nil {
		return DestinationRequest{}, err
	}
	return DestinationRequest{Kind: kind, IntegrationID: strings.TrimSpace(id)}, nil
}

// DestinationID is the platform-prefixed identifier reported to callers.
func (d DestinationRequest) DestinationID() string {
	return d.Kind.prefix() + ":" + d.IntegrationID
}

// Integration is the resolved credential record for one integration id.
type Integration struct {
	ID                 string
	OwnerID            string
	InstagramAccountID string
	FacebookPageID     string
	AccessToken        string
	Active             bool
}
