package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"jobassist-backend/internal/shared/storage/object"
)

// Store implements BlobStore using Google Cloud Storage.
type Store struct {
	client     *gcs.Client
	bucket     string
	prefix     string
	accessID   string
	privateKey []byte
}

// Options configures the GCS store. AccessID and PrivateKeyPath are only
// needed when the ambient credentials cannot sign URLs.
type Options struct {
	Bucket         string
	Prefix         string
	AccessID       string
	PrivateKeyPath string
	ClientOptions  []option.ClientOption
}

// New creates a GCS-backed object store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	var key []byte
	if opts.PrivateKeyPath != "" {
		raw, err := os.ReadFile(opts.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read gcs private key: %w", err)
		}
		key = raw
	}
	c, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &Store{
		client:     c,
		bucket:     opts.Bucket,
		prefix:     object.NormalizePrefix(opts.Prefix),
		accessID:   opts.AccessID,
		privateKey: key,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.client.Close() }

// Put streams the reader into a new object.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	objectName := object.ApplyPrefix(s.prefix, key)
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("gcs write bucket=%s key=%s: %w", s.bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("gcs close bucket=%s key=%s: %w", s.bucket, objectName, err)
	}
	return n, nil
}

// Open reads an object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	objectName := object.ApplyPrefix(s.prefix, key)
	rc, err := s.client.Bucket(s.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("gcs read bucket=%s key=%s: %w", s.bucket, objectName, err)
	}
	return rc, nil
}

// Delete removes each object. GCS has no multi-object delete in this client.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	bkt := s.client.Bucket(s.bucket)
	for _, k := range keys {
		objectName := object.ApplyPrefix(s.prefix, k)
		if err := bkt.Object(objectName).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("gcs delete bucket=%s key=%s: %w", s.bucket, objectName, err)
		}
	}
	return nil
}

// List iterates objects under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]object.ObjectInfo, error) {
	listPrefix := object.ApplyPrefix(s.prefix, prefix)
	if s.prefix != "" && prefix == "" {
		listPrefix += "/"
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: listPrefix})

	out := make([]object.ObjectInfo, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list bucket=%s prefix=%s: %w", s.bucket, listPrefix, err)
		}
		out = append(out, object.ObjectInfo{
			Key:          object.StripPrefix(s.prefix, attrs.Name),
			Size:         attrs.Size,
			LastModified: attrs.Updated.UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// SignedURL returns a V4 signed GET URL valid for ttl.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectName := object.ApplyPrefix(s.prefix, key)
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if s.accessID != "" && len(s.privateKey) > 0 {
		opts.GoogleAccessID = s.accessID
		opts.PrivateKey = s.privateKey
	}
	u, err := s.client.Bucket(s.bucket).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("gcs sign bucket=%s key=%s: %w", s.bucket, objectName, err)
	}
	return u, nil
}

var _ object.BlobStore = (*Store)(nil)
