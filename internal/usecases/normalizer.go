package usecases

import (
	"context"
	stderrors "errors"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/domain/repositories"
	"social-publisher/internal/infrastructure/processor"
	"social-publisher/internal/infrastructure/storage"
	"social-publisher/pkg/errors"
	"social-publisher/pkg/file"

	"go.uber.org/zap"
)

type NormalizerService interface {
	// Normalize turns one media item into a JPEG hosted at a public URL.
	Normalize(ctx context.Context, item dto.MediaItem, position int, batchKey string) (string, error)
}

type normalizerService struct {
	source  repositories.MediaStore
	storage repositories.ObjectStorage
	prefix  string
	log     *zap.Logger
}

func NewNormalizerService(
	source repositories.MediaStore,
	storage repositories.ObjectStorage,
	prefix string,
	log *zap.Logger,
) NormalizerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &normalizerService{
		source:  source,
		storage: storage,
		prefix:  prefix,
		log:     log,
	}
}

func (s *normalizerService) Normalize(ctx context.Context, item dto.MediaItem, position int, batchKey string) (string, error) {
	data, declared, err := s.load(ctx, item)
	if err != nil {
		return "", err
	}

	contentType := file.ContentType(declared, data)
	if !file.IsImageContentType(contentType) {
		return "", errors.ErrNotImage(contentType)
	}

	// Inline images arrive pre-cropped.
	policy := item.Crop()
	if item.IsInline() {
		policy = dto.CropNone
	}

	encoded, err := processor.Normalize(data, policy)
	if err != nil {
		return "", errors.ErrInvalidRequest(err.Error())
	}

	key := file.MakeKey(s.prefix, batchKey, position)
	if err := s.storage.Upload(ctx, key, encoded, "image/jpeg"); err != nil {
		return "", errors.ErrStorage(err)
	}

	s.log.Debug("media normalized",
		zap.String("batch_key", batchKey),
		zap.Int("position", position),
		zap.String("crop", string(policy)),
		zap.Int("bytes", len(encoded)))
	return s.storage.PublicURL(key), nil
}

func (s *normalizerService) load(ctx context.Context, item dto.MediaItem) ([]byte, string, error) {
	if item.IsInline() {
		return item.Inline, "", nil
	}
	if item.FileID == "" {
		return nil, "", errors.ErrInvalidRequest("media item has neither a file id nor inline data")
	}

	data, contentType, err := s.source.Fetch(ctx, item.FileID)
	if stderrors.Is(err, storage.ErrFileNotFound) {
		return nil, "", errors.ErrNotFound(err)
	}
	if err != nil {
		return nil, "", errors.ErrStorage(err)
	}
	return data, contentType, nil
}
