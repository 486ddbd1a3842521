package object

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// BlobStore defines the contract for path-addressed binary storage.
type BlobStore interface {
	// Put writes r under key and returns the number of bytes stored.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes keys in one call. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// List returns every object whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NormalizePrefix trims whitespace and surrounding slashes from a bucket prefix.
func NormalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

// ApplyPrefix joins a bucket prefix and a key with exactly one slash.
func ApplyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

// StripPrefix is the inverse of ApplyPrefix for keys returned by a listing.
func StripPrefix(prefix, objectKey string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	if cleanPrefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, cleanPrefix+"/")
}
