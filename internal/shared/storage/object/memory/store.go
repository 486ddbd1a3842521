package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"jobassist-backend/internal/shared/storage/object"
)

type entry struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// Store implements BlobStore in process memory. It backs tests and demo mode.
type Store struct {
	mu      sync.RWMutex
	objects map[string]entry
	now     func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return NewWithClock(nil)
}

// NewWithClock creates a store whose modification times come from now.
func NewWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{objects: make(map[string]entry), now: now}
}

// Put stores a copy of the reader contents.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(key) == "" {
		return 0, fmt.Errorf("invalid storage key")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = entry{data: data, contentType: contentType, modTime: s.now().UTC()}
	return int64(len(data)), nil
}

// Open returns a reader over a copy of the stored bytes.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[key]
	if !ok {
		return nil, object.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), e.data...))), nil
}

// Delete removes the given keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

// List returns objects under prefix sorted by key.
func (s *Store) List(ctx context.Context, prefix string) ([]object.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]object.ObjectInfo, 0)
	for k, e := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, object.ObjectInfo{Key: k, Size: int64(len(e.data)), LastModified: e.modTime})
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SignedURL returns a memory:// URL carrying the expiry. It only identifies the object.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", object.ErrNotFound
	}
	q := url.Values{}
	q.Set("expires", fmt.Sprintf("%d", s.now().Add(ttl).Unix()))
	return "memory://" + key + "?" + q.Encode(), nil
}

var _ object.BlobStore = (*Store)(nil)
