package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"social-publisher/internal/domain/repositories"
	"social-publisher/internal/pkg/fileutils"
)

var ErrFileNotFound = errors.New("file not found")

// LocalStorage keeps normalized images under BasePath and serves originals
// from SourcePath. It is meant for development, with BaseURL pointing at the
// server's static route.
type LocalStorage struct {
	BasePath   string
	SourcePath string
	BaseURL    string
}

func NewLocalStorage(basePath, sourcePath, baseURL string) *LocalStorage {
	return &LocalStorage{
		BasePath:   basePath,
		SourcePath: sourcePath,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (l *LocalStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	fullPath, err := safeJoin(l.BasePath, path)
	if err != nil {
		return err
	}

	// The static route may be serving the previous version to a platform fetch.
	return fileutils.WriteFileAtomic(fullPath, data, 0o644)
}

func (l *LocalStorage) PublicURL(path string) string {
	return l.BaseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (l *LocalStorage) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	fullPath, err := safeJoin(l.SourcePath, fileID)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
		}
		return nil, "", fmt.Errorf("file could not be read: %w", err)
	}
	return data, mime.TypeByExtension(filepath.Ext(fullPath)), nil
}

func (l *LocalStorage) DeleteOlderThan(ctx context.Context, prefix string, maxAge time.Duration) (int, error) {
	root, err := safeJoin(l.BasePath, prefix)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// safeJoin keeps rel inside base.
func safeJoin(base, rel string) (string, error) {
	full := filepath.Join(base, filepath.FromSlash(rel))
	if full != filepath.Clean(base) && !strings.HasPrefix(full, filepath.Clean(base)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", rel)
	}
	return full, nil
}

var (
	_ repositories.ObjectStorage = (*LocalStorage)(nil)
	_ repositories.MediaStore    = (*LocalStorage)(nil)
)
