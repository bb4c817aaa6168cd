package usecases

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"testing"

	"social-publisher/internal/domain/dto"
	"social-publisher/internal/infrastructure/storage"
	"social-publisher/pkg/errors"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) image.Point {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestNormalizeFileItemCropsAndUploads(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	store.Put("file-1", pngBytes(t, 400, 200), "image/png")
	n := NewNormalizerService(store, store, "social", nil)

	item := dto.MediaItem{FileID: "file-1", Edit: &dto.EditInstructions{Crop: dto.CropSquare}}
	url, err := n.Normalize(context.Background(), item, 2, "batch-7")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/social/batch-7/2.jpg", url)

	data, ok := store.Object("social/batch-7/2.jpg")
	require.True(t, ok)
	assert.Equal(t, image.Pt(200, 200), decodedSize(t, data))
	assert.Equal(t, []string{"file-1"}, store.Fetches())
}

func TestNormalizeInlineSkipsFetchAndCrop(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	n := NewNormalizerService(store, store, "social", nil)

	item := dto.MediaItem{Inline: pngBytes(t, 300, 100), Edit: &dto.EditInstructions{Crop: dto.CropSquare}}
	_, err := n.Normalize(context.Background(), item, 0, "batch-1")
	require.NoError(t, err)

	assert.Empty(t, store.Fetches())
	data, ok := store.Object("social/batch-1/0.jpg")
	require.True(t, ok)
	assert.Equal(t, image.Pt(300, 100), decodedSize(t, data))
}

func TestNormalizeRerunOverwritesSamePath(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	n := NewNormalizerService(store, store, "social", nil)
	item := dto.MediaItem{Inline: pngBytes(t, 10, 10)}

	first, err := n.Normalize(context.Background(), item, 0, "batch-1")
	require.NoError(t, err)
	second, err := n.Normalize(context.Background(), item, 0, "batch-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"social/batch-1/0.jpg", "social/batch-1/0.jpg"}, store.Uploads())
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	store.Put("doc", []byte("%PDF-1.4 not an image"), "application/pdf")
	n := NewNormalizerService(store, store, "social", nil)

	_, err := n.Normalize(context.Background(), dto.MediaItem{FileID: "doc"}, 0, "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotImage))
	assert.Empty(t, store.Uploads())
}

func TestNormalizeSniffsMissingContentType(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	store.Put("raw", pngBytes(t, 20, 20), "")
	n := NewNormalizerService(store, store, "social", nil)

	_, err := n.Normalize(context.Background(), dto.MediaItem{FileID: "raw"}, 0, "b")
	require.NoError(t, err)
}

func TestNormalizeUnknownFile(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.org")
	n := NewNormalizerService(store, store, "social", nil)

	_, err := n.Normalize(context.Background(), dto.MediaItem{FileID: "nope"}, 0, "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

type failingStorage struct {
	*storage.MemoryStorage
}

func (f failingStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	return stderrors.New("bucket unavailable")
}

type unreachableSource struct {
	*storage.MemoryStorage
}

func (u unreachableSource) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	return nil, "", stderrors.New("access denied")
}

func TestNormalizeSourceOutageIsStorageError(t *testing.T) {
	mem := storage.NewMemoryStorage("https://cdn.example.org")
	mem.Put("file-1", pngBytes(t, 10, 10), "image/png")
	n := NewNormalizerService(unreachableSource{mem}, mem, "social", nil)

	_, err := n.Normalize(context.Background(), dto.MediaItem{FileID: "file-1"}, 0, "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeStorage))
	assert.False(t, errors.Is(err, errors.CodeNotFound))
	assert.Empty(t, mem.Uploads())
}

func TestNormalizeUploadFailureIsStorageError(t *testing.T) {
	mem := storage.NewMemoryStorage("https://cdn.example.org")
	n := NewNormalizerService(mem, failingStorage{mem}, "social", nil)

	_, err := n.Normalize(context.Background(), dto.MediaItem{Inline: pngBytes(t, 10, 10)}, 0, "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeStorage))
}
