package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// ImageStore wraps an ObjectStorage backend and maps between object
// keys and the public URLs handed to journal clients.
type ImageStore struct {
	backend       ObjectStorage
	publicBaseURL string
}

// NewImageStore constructs an ImageStore over the provided backend.
// publicBaseURL is the externally reachable prefix under which the
// bucket's objects are served (e.g. a MinIO endpoint or CDN host).
func NewImageStore(backend ObjectStorage, publicBaseURL string) *ImageStore {
	return &ImageStore{
		backend:       backend,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// EnsureBucket ensures the configured bucket exists.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an image object to the configured bucket.
func (s *ImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an image object.
func (s *ImageStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an image object from the configured bucket.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// URL returns the public URL for a stored object key.
func (s *ImageStore) URL(key string) string {
	return s.publicBaseURL + "/" + s.backend.Bucket() + "/" + key
}

// KeyFromURL reports the object key for an image URL previously issued
// by URL. It returns false for external URLs this store does not own.
func (s *ImageStore) KeyFromURL(imageURL string) (string, bool) {
	prefix := s.publicBaseURL + "/" + s.backend.Bucket() + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
