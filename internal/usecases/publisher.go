package usecases

import (
	"context"
	"fmt"
	"strings"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
	"social-publisher/pkg/errors"
	"social-publisher/pkg/helper"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlatformDriver runs one platform's publish protocol for one destination.
type PlatformDriver interface {
	Kind() dto.DestinationKind
	Publish(ctx context.Context, integration dto.Integration, media []dto.NormalizedMedia, caption string) (string, error)
}

type PublisherService interface {
	PublishBatch(ctx context.Context, ownerID, batchKey string, destinations []dto.DestinationRequest, caption string, media []dto.MediaItem) ([]dto.PublishOutcome, error)
	PublishHostedBatch(ctx context.Context, ownerID, batchKey string, destinations []dto.DestinationRequest, caption string, urls []string) ([]dto.PublishOutcome, error)
}

type publisherService struct {
	integrations  repositories.IntegrationRepository
	normalizer    NormalizerService
	publishLogs   repositories.PublishLogRepository
	drivers       map[dto.DestinationKind]PlatformDriver
	maxConcurrent int
	log           *zap.Logger
}

// NewPublisherService wires the orchestrator. publishLogs may be nil;
// maxConcurrent <= 0 leaves fan-out unbounded.
func NewPublisherService(
	integrations repositories.IntegrationRepository,
	normalizer NormalizerService,
	publishLogs repositories.PublishLogRepository,
	maxConcurrent int,
	log *zap.Logger,
	drivers ...PlatformDriver,
) PublisherService {
	if log == nil {
		log = zap.NewNop()
	}
	byKind := make(map[dto.DestinationKind]PlatformDriver, len(drivers))
	for _, d := range drivers {
		byKind[d.Kind()] = d
	}
	return &publisherService{
		integrations:  integrations,
		normalizer:    normalizer,
		publishLogs:   publishLogs,
		drivers:       byKind,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// batchPlan pairs every distinct destination with its integration, nil when
// the integration did not resolve.
type batchPlan struct {
	targets      []dto.DestinationRequest
	integrations []*dto.Integration
}

func (p batchPlan) resolvedCount() int {
	n := 0
	for _, in := range p.integrations {
		if in != nil {
			n++
		}
	}
	return n
}

func (s *publisherService) PublishBatch(ctx context.Context, ownerID, batchKey string, destinations []dto.DestinationRequest, caption string, media []dto.MediaItem) ([]dto.PublishOutcome, error) {
	if len(media) == 0 {
		return []dto.PublishOutcome{}, nil
	}
	if strings.TrimSpace(batchKey) == "" {
		return nil, errors.ErrInvalidRequest("batch key is required")
	}

	plan, err := s.resolve(ctx, ownerID, destinations)
	if err != nil {
		return nil, err
	}

	var normalized []dto.NormalizedMedia
	if plan.resolvedCount() > 0 {
		normalized, err = s.normalizeAll(ctx, batchKey, media)
		if err != nil {
			s.log.Error("batch normalization failed", zap.String("batch_key", batchKey), zap.Error(err))
			return nil, err
		}
	}

	outcomes := s.fanOut(ctx, plan, normalized, caption)
	s.record(ctx, batchKey, ownerID, outcomes)
	return outcomes, nil
}

func (s *publisherService) PublishHostedBatch(ctx context.Context, ownerID, batchKey string, destinations []dto.DestinationRequest, caption string, urls []string) ([]dto.PublishOutcome, error) {
	if len(urls) == 0 {
		return []dto.PublishOutcome{}, nil
	}

	media := make([]dto.NormalizedMedia, 0, len(urls))
	for i, raw := range urls {
		if !helper.IsPublicURL(raw) {
			return nil, errors.ErrInvalidRequest(fmt.Sprintf("urls[%d] is not a public http(s) url", i))
		}
		media = append(media, dto.NormalizedMedia{URL: raw, Position: i})
	}

	plan, err := s.resolve(ctx, ownerID, destinations)
	if err != nil {
		return nil, err
	}

	outcomes := s.fanOut(ctx, plan, media, caption)
	s.record(ctx, batchKey, ownerID, outcomes)
	return outcomes, nil
}

// DedupeDestinations keeps the first occurrence of every (kind, integration)
// pair.
func DedupeDestinations(destinations []dto.DestinationRequest) []dto.DestinationRequest {
	seen := make(map[dto.DestinationRequest]struct{}, len(destinations))
	out := make([]dto.DestinationRequest, 0, len(destinations))
	for _, d := range destinations {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// resolve looks up every referenced integration id in a single call.
func (s *publisherService) resolve(ctx context.Context, ownerID string, destinations []dto.DestinationRequest) (batchPlan, error) {
	targets := DedupeDestinations(destinations)
	plan := batchPlan{
		targets:      targets,
		integrations: make([]*dto.Integration, len(targets)),
	}
	if len(targets) == 0 {
		return plan, nil
	}

	ids := make([]string, 0, len(targets))
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if _, ok := seen[t.IntegrationID]; ok {
			continue
		}
		seen[t.IntegrationID] = struct{}{}
		ids = append(ids, t.IntegrationID)
	}

	found, err := s.integrations.LookupActive(ctx, ownerID, ids)
	if err != nil {
		return batchPlan{}, errors.ErrInternal(fmt.Errorf("integration lookup: %w", err))
	}

	byID := make(map[string]dto.Integration, len(found))
	for _, in := range found {
		if in.Active {
			byID[in.ID] = in
		}
	}
	for i, t := range targets {
		if in, ok := byID[t.IntegrationID]; ok {
			plan.integrations[i] = &in
		}
	}
	return plan, nil
}

// normalizeAll runs every item through the normalizer once, in input order.
func (s *publisherService) normalizeAll(ctx context.Context, batchKey string, media []dto.MediaItem) ([]dto.NormalizedMedia, error) {
	out := make([]dto.NormalizedMedia, 0, len(media))
	for i, item := range media {
		publicURL, err := s.normalizer.Normalize(ctx, item, i, batchKey)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.NormalizedMedia{URL: publicURL, Position: i, AltText: item.AltText()})
	}
	return out, nil
}

// fanOut runs every resolved destination concurrently. Goroutines never
// return an error and share no cancellation: failures are outcomes.
func (s *publisherService) fanOut(ctx context.Context, plan batchPlan, media []dto.NormalizedMedia, caption string) []dto.PublishOutcome {
	outcomes := make([]dto.PublishOutcome, len(plan.targets))

	var g errgroup.Group
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}

	for i, target := range plan.targets {
		integration := plan.integrations[i]
		if integration == nil {
			outcomes[i] = failedOutcome(target, errors.ErrNotConnected())
			continue
		}
		driver, ok := s.drivers[target.Kind]
		if !ok {
			outcomes[i] = failedOutcome(target, errors.ErrInvalidRequest(fmt.Sprintf("no driver for %s", target.Kind)))
			continue
		}

		g.Go(func() error {
			outcomes[i] = attempt(ctx, driver, target, *integration, media, caption)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Success {
			s.log.Info("destination published",
				zap.String("destination", o.DestinationID),
				zap.String("post_id", o.PostID))
		} else {
			s.log.Warn("destination failed",
				zap.String("destination", o.DestinationID),
				zap.String("code", o.ErrorCode),
				zap.String("error", o.Error))
		}
	}
	return outcomes
}

// attempt publishes to one destination and folds the result into an outcome.
func attempt(ctx context.Context, driver PlatformDriver, target dto.DestinationRequest, integration dto.Integration, media []dto.NormalizedMedia, caption string) dto.PublishOutcome {
	postID, err := driver.Publish(ctx, integration, media, caption)
	if err != nil {
		return failedOutcome(target, err)
	}
	return dto.PublishOutcome{
		DestinationID: target.DestinationID(),
		Kind:          target.Kind,
		Success:       true,
		PostID:        postID,
	}
}

func failedOutcome(target dto.DestinationRequest, err error) dto.PublishOutcome {
	code := errors.Code(err)
	if code == "" {
		code = errors.CodePlatform
	}
	return dto.PublishOutcome{
		DestinationID: target.DestinationID(),
		Kind:          target.Kind,
		Success:       false,
		ErrorCode:     code,
		Error:         errors.Message(err),
	}
}

func (s *publisherService) record(ctx context.Context, batchKey, ownerID string, outcomes []dto.PublishOutcome) {
	if s.publishLogs == nil || len(outcomes) == 0 {
		return
	}
	if err := s.publishLogs.Record(ctx, batchKey, ownerID, outcomes); err != nil {
		s.log.Warn("publish outcomes not recorded", zap.String("batch_key", batchKey), zap.Error(err))
	}
}

// Summary renders a one-line account of a batch, e.g.
// "3 of 4 destinations published, 1 failed: <message>".
func Summary(outcomes []dto.PublishOutcome) string {
	if len(outcomes) == 0 {
		return "nothing to publish"
	}

	var failures []string
	for _, o := range outcomes {
		if !o.Success {
			failures = append(failures, o.Error)
		}
	}

	published := len(outcomes) - len(failures)
	summary := fmt.Sprintf("%d of %d destinations published", published, len(outcomes))
	if len(failures) == 0 {
		return summary
	}
	return fmt.Sprintf("%s, %d failed: %s", summary, len(failures), strings.Join(failures, "; "))
}
