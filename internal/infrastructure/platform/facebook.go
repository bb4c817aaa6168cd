package platform

import (
	"context"
	"fmt"
	"net/url"

	"social-publisher/internal/domain/dto"
	"social-publisher/pkg/errors"

	"go.uber.org/zap"
)

type attachedMedia struct {
	MediaFBID string `json:"media_fbid"`
}

type feedPostRequest struct {
	Message       string          `json:"message"`
	AttachedMedia []attachedMedia `json:"attached_media"`
	AccessToken   string          `json:"access_token"`
}

// FacebookDriver posts to a Page feed. One image is a single published photo;
// several are uploaded unpublished first and attached to one feed post.
type FacebookDriver struct {
	client *GraphClient
	log    *zap.Logger
}

func NewFacebookDriver(client *GraphClient, log *zap.Logger) *FacebookDriver {
	if log == nil {
		log = zap.NewNop()
	}
	return &FacebookDriver{client: client, log: log}
}

func (d *FacebookDriver) Kind() dto.DestinationKind {
	return dto.Facebook
}

func (d *FacebookDriver) Publish(ctx context.Context, integration dto.Integration, media []dto.NormalizedMedia, caption string) (string, error) {
	if integration.FacebookPageID == "" {
		return "", errors.ErrMissingCredential("a Facebook page id")
	}
	if integration.AccessToken == "" {
		return "", errors.ErrMissingCredential("an access token")
	}
	if len(media) == 0 {
		return "", errors.ErrInvalidRequest("no media to publish")
	}

	log := d.log.With(zap.String("page_id", integration.FacebookPageID), zap.Int("media", len(media)))

	if len(media) == 1 {
		postID, err := d.postPhoto(ctx, integration, media[0], caption)
		if err != nil {
			return "", err
		}
		log.Info("facebook photo published", zap.String("post_id", postID))
		return postID, nil
	}

	// Upload order decides gallery order.
	attached := make([]attachedMedia, 0, len(media))
	for _, item := range media {
		photoID, err := d.uploadUnpublished(ctx, integration, item)
		if err != nil {
			return "", err
		}
		attached = append(attached, attachedMedia{MediaFBID: photoID})
	}

	var out idResponse
	err := d.client.PostJSON(ctx, integration.FacebookPageID+"/feed", feedPostRequest{
		Message:       caption,
		AttachedMedia: attached,
		AccessToken:   integration.AccessToken,
	}, &out)
	if err != nil {
		return "", errors.ErrPlatform("feed post creation", err)
	}
	if out.ID == "" {
		return "", errors.ErrPlatform("feed post creation", fmt.Errorf("response carried no post id"))
	}

	log.Info("facebook feed post published", zap.String("post_id", out.ID))
	return out.ID, nil
}

func (d *FacebookDriver) postPhoto(ctx context.Context, integration dto.Integration, item dto.NormalizedMedia, caption string) (string, error) {
	form := url.Values{
		"url":          {item.URL},
		"message":      {caption},
		"published":    {"true"},
		"access_token": {integration.AccessToken},
	}

	var out idResponse
	if err := d.client.PostForm(ctx, integration.FacebookPageID+"/photos", form, &out); err != nil {
		return "", errors.ErrPlatform("photo post", err)
	}
	if out.PostID != "" {
		return out.PostID, nil
	}
	if out.ID == "" {
		return "", errors.ErrPlatform("photo post", fmt.Errorf("response carried no photo id"))
	}
	return out.ID, nil
}

func (d *FacebookDriver) uploadUnpublished(ctx context.Context, integration dto.Integration, item dto.NormalizedMedia) (string, error) {
	form := url.Values{
		"url":          {item.URL},
		"published":    {"false"},
		"access_token": {integration.AccessToken},
	}

	op := fmt.Sprintf("photo %d upload", item.Position+1)
	var out idResponse
	if err := d.client.PostForm(ctx, integration.FacebookPageID+"/photos", form, &out); err != nil {
		return "", errors.ErrPlatform(op, err)
	}
	if out.ID == "" {
		return "", errors.ErrPlatform(op, fmt.Errorf("response carried no photo id"))
	}
	return out.ID, nil
}
