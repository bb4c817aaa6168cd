package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"social-publisher/internal/domain/dto"
	"social-publisher/pkg/errors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Container status codes reported by the Instagram Graph API.
const (
	statusFinished   = "FINISHED"
	statusInProgress = "IN_PROGRESS"
	statusError      = "ERROR"
	statusExpired    = "EXPIRED"
)

type idResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id,omitempty"`
}

type containerStatus struct {
	StatusCode string `json:"status_code"`
	Status     string `json:"status"`
}

// InstagramDriver publishes single images or carousels through the
// container protocol: create container(s), poll until FINISHED, publish.
type InstagramDriver struct {
	client *GraphClient
	opts   Options
	log    *zap.Logger
}

func NewInstagramDriver(client *GraphClient, opts Options, log *zap.Logger) *InstagramDriver {
	if log == nil {
		log = zap.NewNop()
	}
	return &InstagramDriver{client: client, opts: opts.withDefaults(), log: log}
}

func (d *InstagramDriver) Kind() dto.DestinationKind {
	return dto.Instagram
}

func (d *InstagramDriver) Publish(ctx context.Context, integration dto.Integration, media []dto.NormalizedMedia, caption string) (string, error) {
	if integration.InstagramAccountID == "" {
		return "", errors.ErrMissingCredential("an Instagram account id")
	}
	if integration.AccessToken == "" {
		return "", errors.ErrMissingCredential("an access token")
	}
	if len(media) == 0 {
		return "", errors.ErrInvalidRequest("no media to publish")
	}
	if len(media) > d.opts.MaxCarouselItems {
		return "", errors.ErrMediaLimit(len(media), d.opts.MaxCarouselItems)
	}

	log := d.log.With(zap.String("ig_user_id", integration.InstagramAccountID), zap.Int("media", len(media)))

	var containerID string
	var err error
	if len(media) == 1 {
		containerID, err = d.createSingle(ctx, integration, media[0], caption)
	} else {
		containerID, err = d.createCarousel(ctx, integration, media, caption)
	}
	if err != nil {
		return "", err
	}
	log.Debug("container created", zap.String("container_id", containerID))

	if err := d.waitReady(ctx, integration, containerID); err != nil {
		return "", errors.ErrContainerNotReady(containerID, err)
	}

	postID, err := d.publish(ctx, integration, containerID)
	if err != nil {
		return "", errors.ErrPublishRejected(containerID, err)
	}
	log.Info("instagram post published", zap.String("post_id", postID))
	return postID, nil
}

func (d *InstagramDriver) createSingle(ctx context.Context, integration dto.Integration, item dto.NormalizedMedia, caption string) (string, error) {
	form := url.Values{
		"image_url":    {item.URL},
		"caption":      {caption},
		"access_token": {integration.AccessToken},
	}
	if item.AltText != "" {
		form.Set("alt_text", item.AltText)
	}
	return d.createContainer(ctx, integration, form, "media container creation")
}

// createCarousel creates one child container per image in input order, then
// the parent carousel container referencing them.
func (d *InstagramDriver) createCarousel(ctx context.Context, integration dto.Integration, media []dto.NormalizedMedia, caption string) (string, error) {
	children := make([]string, 0, len(media))
	for _, item := range media {
		form := url.Values{
			"image_url":        {item.URL},
			"is_carousel_item": {"true"},
			"access_token":     {integration.AccessToken},
		}
		if item.AltText != "" {
			form.Set("alt_text", item.AltText)
		}
		childID, err := d.createContainer(ctx, integration, form, fmt.Sprintf("carousel item %d creation", item.Position+1))
		if err != nil {
			return "", err
		}
		children = append(children, childID)
	}

	form := url.Values{
		"media_type":   {"CAROUSEL"},
		"children":     {strings.Join(children, ",")},
		"caption":      {caption},
		"access_token": {integration.AccessToken},
	}
	return d.createContainer(ctx, integration, form, "carousel container creation")
}

func (d *InstagramDriver) createContainer(ctx context.Context, integration dto.Integration, form url.Values, op string) (string, error) {
	var out idResponse
	if err := d.client.PostForm(ctx, integration.InstagramAccountID+"/media", form, &out); err != nil {
		return "", errors.ErrPlatform(op, err)
	}
	if out.ID == "" {
		return "", errors.ErrPlatform(op, fmt.Errorf("response carried no container id"))
	}
	return out.ID, nil
}

// waitReady polls the container status. ERROR and EXPIRED end polling at
// once; the attempt cap makes it fail closed.
func (d *InstagramDriver) waitReady(ctx context.Context, integration dto.Integration, containerID string) error {
	query := url.Values{
		"fields":       {"status_code,status"},
		"access_token": {integration.AccessToken},
	}

	attempt := 0
	check := func() error {
		attempt++
		var st containerStatus
		if err := d.client.Get(ctx, containerID, query, &st); err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		switch st.StatusCode {
		case statusFinished:
			return nil
		case statusError, statusExpired:
			return backoff.Permanent(fmt.Errorf("container status %s: %s", st.StatusCode, st.Status))
		default:
			d.log.Debug("container not ready",
				zap.String("container_id", containerID),
				zap.String("status_code", st.StatusCode),
				zap.Int("attempt", attempt))
			return fmt.Errorf("container status %s after %d attempts", statusOrUnknown(st.StatusCode), attempt)
		}
	}

	return backoff.Retry(check, backoff.WithContext(d.opts.pollBackOff(), ctx))
}

func (d *InstagramDriver) publish(ctx context.Context, integration dto.Integration, containerID string) (string, error) {
	form := url.Values{
		"creation_id":  {containerID},
		"access_token": {integration.AccessToken},
	}

	var postID string
	attempt := 0
	call := func() error {
		attempt++
		var out idResponse
		if err := d.client.PostForm(ctx, integration.InstagramAccountID+"/media_publish", form, &out); err != nil {
			d.log.Warn("media_publish failed",
				zap.String("container_id", containerID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		postID = out.ID
		return nil
	}

	if err := backoff.Retry(call, backoff.WithContext(d.opts.publishBackOff(), ctx)); err != nil {
		return "", err
	}
	return postID, nil
}

func statusOrUnknown(s string) string {
	if s == "" {
		return statusInProgress
	}
	return s
}
