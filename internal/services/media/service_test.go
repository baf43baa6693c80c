package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

type stubBlobStore struct {
	failPuts int
	puts     int
	lastKey  string
	lastSize int64
	deleted  []string
}

func (s *stubBlobStore) EnsureBucket(ctx context.Context) error {
	return nil
}

func (s *stubBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	s.puts++
	if s.failPuts >= s.puts {
		return "", fmt.Errorf("storage down")
	}
	s.lastKey = key
	s.lastSize = size
	return "http://blob.local/photos/" + key, nil
}

func (s *stubBlobStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubBlobStore) KeyFromURL(url string) (string, bool) {
	const prefix = "http://blob.local/photos/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func TestUploadProfilePhoto(t *testing.T) {
	store := &stubBlobStore{}
	svc := NewService(store, Config{})

	url, err := svc.UploadProfilePhoto(context.Background(), 42, "me.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("upload photo: %v", err)
	}
	if url == "" {
		t.Fatalf("expected photo url")
	}
	if !strings.HasPrefix(store.lastKey, "users/42/photos/") {
		t.Fatalf("unexpected object key: %q", store.lastKey)
	}
	if !strings.HasSuffix(store.lastKey, ".png") {
		t.Fatalf("expected .png object key, got %q", store.lastKey)
	}
	if store.lastSize != 9 {
		t.Fatalf("unexpected object size: got %d want 9", store.lastSize)
	}
}

func TestUploadProfilePhotoRetriesOnce(t *testing.T) {
	store := &stubBlobStore{failPuts: 1}
	svc := NewService(store, Config{})

	if _, err := svc.UploadProfilePhoto(context.Background(), 7, "me.jpg", "image/jpeg", strings.NewReader("jpeg"), 4); err != nil {
		t.Fatalf("upload should recover on retry: %v", err)
	}
	if store.puts != 2 {
		t.Fatalf("expected 2 put attempts, got %d", store.puts)
	}
}

func TestUploadProfilePhotoDependencyError(t *testing.T) {
	store := &stubBlobStore{failPuts: 2}
	svc := NewService(store, Config{})

	_, err := svc.UploadProfilePhoto(context.Background(), 7, "me.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if store.puts != 2 {
		t.Fatalf("expected exactly 2 put attempts, got %d", store.puts)
	}
}

func TestUploadProfilePhotoRejectsBadInput(t *testing.T) {
	svc := NewService(&stubBlobStore{}, Config{MaxPhotoSize: 10})

	cases := []struct {
		name        string
		contentType string
		body        string
		size        int64
	}{
		{name: "unsupported type", contentType: "image/gif", body: "gif", size: 3},
		{name: "oversized declared", contentType: "image/png", body: "png", size: 11},
		{name: "oversized actual", contentType: "image/png", body: strings.Repeat("x", 11), size: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadProfilePhoto(context.Background(), 1, "a.png", tc.contentType, strings.NewReader(tc.body), tc.size)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRemoveProfilePhoto(t *testing.T) {
	store := &stubBlobStore{}
	svc := NewService(store, Config{})

	if err := svc.RemoveProfilePhoto(context.Background(), "http://blob.local/photos/users/1/photos/a.png"); err != nil {
		t.Fatalf("remove photo: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "users/1/photos/a.png" {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}

	// Foreign URLs are skipped, not treated as errors.
	if err := svc.RemoveProfilePhoto(context.Background(), "https://elsewhere.example/img.png"); err != nil {
		t.Fatalf("foreign url should be a no-op: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("foreign url must not reach the store: %v", store.deleted)
	}
}

func TestUploadProfilePhotoWithoutStorage(t *testing.T) {
	svc := NewService(nil, Config{})

	_, err := svc.UploadProfilePhoto(context.Background(), 1, "a.png", "image/png", strings.NewReader("png"), 3)
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
