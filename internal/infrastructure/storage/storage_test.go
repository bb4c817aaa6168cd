package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, dir, "http://localhost:3000/static/")
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "social/b1/0.jpg", []byte("first"), "image/jpeg"))
	require.NoError(t, store.Upload(ctx, "social/b1/0.jpg", []byte("second"), "image/jpeg"))

	data, err := os.ReadFile(filepath.Join(dir, "social", "b1", "0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "http://localhost:3000/static/social/b1/0.jpg", store.PublicURL("social/b1/0.jpg"))
}

func TestLocalStorageFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png"), 0o644))
	store := NewLocalStorage(t.TempDir(), dir, "http://x")

	data, ct, err := store.Fetch(context.Background(), "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", ct)

	_, _, err = store.Fetch(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, _, err = store.Fetch(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorageDeleteOlderThan(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, dir, "http://x")
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "social/old/0.jpg", []byte("a"), "image/jpeg"))
	require.NoError(t, store.Upload(ctx, "social/new/0.jpg", []byte("b"), "image/jpeg"))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "social", "old", "0.jpg"), old, old))

	n, err := store.DeleteOlderThan(ctx, "social", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(filepath.Join(dir, "social", "new", "0.jpg"))
	assert.NoError(t, err)

	n, err = store.DeleteOlderThan(ctx, "nothing-here", time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type fakeS3 struct {
	puts    map[string][]byte
	objects []types.Object
	deleted []string
	getErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.puts[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: aws.String("image/png"),
	}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{Contents: f.objects, IsTruncated: aws.Bool(false)}, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	for _, obj := range in.Delete.Objects {
		f.deleted = append(f.deleted, aws.ToString(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestS3StorageUploadAndURL(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}}
	store := newS3Storage(fake, "publish-bucket", "", "eu-central-1", "")

	require.NoError(t, store.Upload(context.Background(), "social/b/1.jpg", []byte("jpg"), "image/jpeg"))
	assert.Equal(t, []byte("jpg"), fake.puts["social/b/1.jpg"])
	assert.Equal(t, "https://publish-bucket.s3.eu-central-1.amazonaws.com/social/b/1.jpg", store.PublicURL("social/b/1.jpg"))

	cdn := newS3Storage(fake, "publish-bucket", "", "eu-central-1", "https://cdn.example.org/")
	assert.Equal(t, "https://cdn.example.org/social/b/1.jpg", cdn.PublicURL("social/b/1.jpg"))
}

func TestS3StorageFetch(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{"src/a.png": []byte("png")}}
	store := newS3Storage(fake, "b", "", "r", "")

	data, ct, err := store.Fetch(context.Background(), "src/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", ct)

	_, _, err = store.Fetch(context.Background(), "src/none.png")
	assert.ErrorIs(t, err, ErrFileNotFound)

	fake.getErr = errors.New("throttled")
	_, _, err = store.Fetch(context.Background(), "src/a.png")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestS3StorageDeleteOlderThan(t *testing.T) {
	old := time.Now().Add(-96 * time.Hour)
	recent := time.Now()
	fake := &fakeS3{
		puts:    map[string][]byte{},
		objects: []types.Object{
			{Key: aws.String("social/a/0.jpg"), LastModified: &old},
			{Key: aws.String("social/b/0.jpg"), LastModified: &recent},
		},
	}
	store := newS3Storage(fake, "b", "", "r", "")

	n, err := store.DeleteOlderThan(context.Background(), "social", 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"social/a/0.jpg"}, fake.deleted)
}

func TestMemoryStorageRecordsOrder(t *testing.T) {
	store := NewMemoryStorage("https://cdn")
	ctx := context.Background()
	require.NoError(t, store.Upload(ctx, "p/1", []byte("x"), "image/jpeg"))
	require.NoError(t, store.Upload(ctx, "p/0", []byte("y"), "image/jpeg"))

	assert.Equal(t, []string{"p/1", "p/0"}, store.Uploads())
	assert.Equal(t, "https://cdn/p/0", store.PublicURL("p/0"))
}
