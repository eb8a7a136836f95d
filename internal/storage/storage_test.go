package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
)

type memBackend struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
}

func newMemBackend(bucket string) *memBackend {
	return &memBackend{bucket: bucket, objects: make(map[string][]byte)}
}

func (b *memBackend) EnsureBucket(context.Context) error { return nil }

func (b *memBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *memBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBackend) Bucket() string { return b.bucket }

func TestImageStoreURLRoundTrip(t *testing.T) {
	store := NewImageStore(newMemBackend("journal-images"), "http://localhost:9000/")

	url := store.URL("abc123.jpg")
	if url != "http://localhost:9000/journal-images/abc123.jpg" {
		t.Fatalf("unexpected url: %q", url)
	}

	key, ok := store.KeyFromURL(url)
	if !ok || key != "abc123.jpg" {
		t.Fatalf("round trip failed: key=%q ok=%v", key, ok)
	}
}

func TestImageStoreKeyFromForeignURL(t *testing.T) {
	store := NewImageStore(newMemBackend("journal-images"), "http://localhost:9000")

	cases := []string{
		"https://example.com/photo.jpg",
		"http://localhost:9000/other-bucket/photo.jpg",
		"http://localhost:9000/journal-images/",
		"",
	}
	for _, url := range cases {
		if key, ok := store.KeyFromURL(url); ok {
			t.Fatalf("url %q must not map to a key, got %q", url, key)
		}
	}
}

func TestImageStorePutGetDelete(t *testing.T) {
	backend := newMemBackend("journal-images")
	store := NewImageStore(backend, "http://localhost:9000")
	ctx := context.Background()

	if err := store.Put(ctx, "a.png", bytes.NewReader([]byte("png")), 3, "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}

	rc, err := store.Get(ctx, "a.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "png" {
		t.Fatalf("got %q", data)
	}

	if err := store.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "a.png"); err == nil {
		t.Fatalf("object should be gone")
	}
}
