package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

type Object struct {
	ContentType string
	Body        []byte
}

// MemoryStorage is an in-process ArchiveStorage. Its download URLs use the
// memory:// scheme and are only meaningful to tests.
type MemoryStorage struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]Object
}

var _ ArchiveStorage = (*MemoryStorage)(nil)

func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{bucket: bucket, objects: make(map[string]Object)}
}

func (m *MemoryStorage) PutObject(_ context.Context, objectKey, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey] = Object{ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey]; !ok {
		return "", ErrObjectNotFound
	}
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	u := url.URL{
		Scheme:   "memory",
		Host:     m.bucket,
		Path:     "/" + objectKey,
		RawQuery: url.Values{"expires": {expires.String()}}.Encode(),
	}
	return u.String(), nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, objectKey)
	return nil
}

// Object returns a stored object.
func (m *MemoryStorage) Object(objectKey string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[objectKey]
	return obj, ok
}
