package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"social-publisher/internal/domain/repositories"
)

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStorage is an in-process ObjectStorage and MediaStore.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
	uploads []string
	fetches []string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

// Put seeds an object, e.g. a source file.
func (m *MemoryStorage) Put(path string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memoryObject{data: data, contentType: contentType, modified: time.Now()}
}

func (m *MemoryStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memoryObject{data: data, contentType: contentType, modified: time.Now()}
	m.uploads = append(m.uploads, path)
	return nil
}

func (m *MemoryStorage) PublicURL(path string) string {
	return m.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (m *MemoryStorage) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, fileID)
	obj, ok := m.objects[fileID]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	return obj.data, obj.contentType, nil
}

func (m *MemoryStorage) DeleteOlderThan(ctx context.Context, prefix string, maxAge time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for path, obj := range m.objects {
		if strings.HasPrefix(path, prefix) && obj.modified.Before(cutoff) {
			delete(m.objects, path)
			deleted++
		}
	}
	return deleted, nil
}

// Object returns the stored bytes at path.
func (m *MemoryStorage) Object(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj.data, ok
}

// Uploads lists upload paths in call order.
func (m *MemoryStorage) Uploads() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.uploads...)
}

// Fetches lists fetched file ids in call order.
func (m *MemoryStorage) Fetches() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.fetches...)
}

var (
	_ repositories.ObjectStorage = (*MemoryStorage)(nil)
	_ repositories.MediaStore    = (*MemoryStorage)(nil)
)
