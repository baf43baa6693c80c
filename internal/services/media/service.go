package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation error")
	ErrDependency = errors.New("media storage unavailable")
)

const (
	DefaultMaxPhotoSize = 5 << 20
	defaultPutTimeout   = 10 * time.Second
)

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// BlobStore writes photo objects and reports their public URL.
type BlobStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type Config struct {
	MaxPhotoSize int64
	PutTimeout   time.Duration
}

type Service struct {
	storage      BlobStore
	maxPhotoSize int64
	putTimeout   time.Duration
}

func NewService(storage BlobStore, cfg Config) *Service {
	if cfg.MaxPhotoSize <= 0 {
		cfg.MaxPhotoSize = DefaultMaxPhotoSize
	}
	if cfg.PutTimeout <= 0 {
		cfg.PutTimeout = defaultPutTimeout
	}

	return &Service{
		storage:      storage,
		maxPhotoSize: cfg.MaxPhotoSize,
		putTimeout:   cfg.PutTimeout,
	}
}

// UploadProfilePhoto stores a profile photo and returns its URL. Uploads
// run under a per-attempt timeout and are retried once on storage errors.
func (s *Service) UploadProfilePhoto(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return "", ErrValidation
	}
	if size > s.maxPhotoSize {
		return "", fmt.Errorf("photo exceeds %d bytes: %w", s.maxPhotoSize, ErrValidation)
	}
	if s.storage == nil {
		return "", ErrDependency
	}

	contentType = strings.TrimSpace(strings.ToLower(contentType))
	defaultExt, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported photo type %q: %w", contentType, ErrValidation)
	}

	// Buffer the payload so a failed attempt can be replayed.
	data, err := io.ReadAll(io.LimitReader(body, s.maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("read photo payload: %w", err)
	}
	if int64(len(data)) > s.maxPhotoSize {
		return "", fmt.Errorf("photo exceeds %d bytes: %w", s.maxPhotoSize, ErrValidation)
	}

	objectKey := buildPhotoObjectKey(userID, fileName, defaultExt)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		url, putErr := s.putOnce(ctx, objectKey, data, contentType)
		if putErr == nil {
			return url, nil
		}
		lastErr = putErr
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("upload profile photo: %v: %w", lastErr, ErrDependency)
}

// RemoveProfilePhoto deletes a previously uploaded photo object by its
// public URL. URLs the storage does not recognize are skipped so foreign
// links never break a profile update.
func (s *Service) RemoveProfilePhoto(ctx context.Context, photoURL string) error {
	if s.storage == nil || strings.TrimSpace(photoURL) == "" {
		return nil
	}

	key, ok := s.storage.KeyFromURL(photoURL)
	if !ok {
		return nil
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.putTimeout)
	defer cancel()

	if err := s.storage.Delete(deleteCtx, key); err != nil {
		return fmt.Errorf("remove profile photo: %v: %w", err, ErrDependency)
	}

	return nil
}

func (s *Service) putOnce(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.putTimeout)
	defer cancel()

	if err := s.storage.EnsureBucket(attemptCtx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	url, err := s.storage.Put(attemptCtx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return url, nil
}

func buildPhotoObjectKey(userID int64, fileName, defaultExt string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = defaultExt
	}
	return fmt.Sprintf("users/%d/photos/%s%s", userID, uuid.NewString(), ext)
}
