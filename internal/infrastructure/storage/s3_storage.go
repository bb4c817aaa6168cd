package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"social-publisher/internal/domain/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Storage hosts normalized images in bucketName and reads originals from
// sourceBucket.
type S3Storage struct {
	client       s3API
	bucketName   string
	sourceBucket string
	region       string
	baseURL      string
}

func NewS3Storage(ctx context.Context, bucketName, sourceBucket, region, baseURL string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS config could not be loaded: %w", err)
	}
	return newS3Storage(s3.NewFromConfig(cfg), bucketName, sourceBucket, region, baseURL), nil
}

func newS3Storage(client s3API, bucketName, sourceBucket, region, baseURL string) *S3Storage {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, region)
	}
	if sourceBucket == "" {
		sourceBucket = bucketName
	}
	return &S3Storage{
		client:       client,
		bucketName:   bucketName,
		sourceBucket: sourceBucket,
		region:       region,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3Storage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("S3 upload failed for %s: %w", path, err)
	}
	return nil
}

func (s *S3Storage) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (s *S3Storage) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.sourceBucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
		}
		return nil, "", fmt.Errorf("S3 download failed for %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("S3 object could not be read: %w", err)
	}
	return data, aws.ToString(resp.ContentType), nil
}

// DeleteOlderThan removes objects under prefix last modified before maxAge ago.
func (s *S3Storage) DeleteOlderThan(ctx context.Context, prefix string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("S3 list failed: %w", err)
		}

		var stale []types.ObjectIdentifier
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, types.ObjectIdentifier{Key: obj.Key})
			}
		}
		if len(stale) == 0 {
			continue
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucketName),
			Delete: &types.Delete{Objects: stale, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("S3 delete failed: %w", err)
		}
		deleted += len(stale)
	}
	return deleted, nil
}

var (
	_ repositories.ObjectStorage = (*S3Storage)(nil)
	_ repositories.MediaStore    = (*S3Storage)(nil)
)
