package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/romatertia749-eng/StudNet/internal/domain/enums"
	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	"github.com/romatertia749-eng/StudNet/internal/pkg/validate"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
)

const (
	minNameRunes = 2
	maxNameRunes = 50
	minAge       = 15
	maxAge       = 50
	maxBioRunes  = 300
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

type ProfileStore interface {
	Upsert(ctx context.Context, in pgrepo.ProfileUpsert) (model.Profile, error)
	GetByID(ctx context.Context, id int64) (model.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

type PhotoUploader interface {
	UploadProfilePhoto(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (string, error)
	RemoveProfilePhoto(ctx context.Context, photoURL string) error
}

type PhotoUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

type UpsertInput struct {
	UserID     int64
	Username   *string
	FirstName  *string
	LastName   *string
	Name       string
	Gender     string
	Age        int
	City       string
	University string
	Interests  []string
	Goals      []string
	Bio        *string
	Photo      *PhotoUpload
}

type Service struct {
	store    ProfileStore
	uploader PhotoUploader
}

func NewService(store ProfileStore, uploader PhotoUploader) *Service {
	return &Service{
		store:    store,
		uploader: uploader,
	}
}

// Upsert creates the caller's profile or replaces an existing one keyed by
// user id. A new photo, when supplied, is stored first so the saved row
// already points at the uploaded object.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	normalized, err := normalizeAndValidateInput(in)
	if err != nil {
		return model.Profile{}, err
	}

	var photoURL *string
	var replacedPhotoURL string
	if in.Photo != nil {
		if s.uploader == nil {
			return model.Profile{}, fmt.Errorf("photo uploader is not configured")
		}

		if existing, err := s.store.GetByUserID(ctx, in.UserID); err == nil && existing.PhotoURL != nil {
			replacedPhotoURL = *existing.PhotoURL
		}

		url, err := s.uploader.UploadProfilePhoto(ctx, in.UserID, in.Photo.FileName, in.Photo.ContentType, in.Photo.Body, in.Photo.Size)
		if err != nil {
			return model.Profile{}, err
		}
		photoURL = &url
	}

	normalized.PhotoURL = photoURL
	profile, err := s.store.Upsert(ctx, normalized)
	if err != nil {
		return model.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	// The replaced object is orphaned once the row points at the new photo.
	// Cleanup failures are not the caller's problem.
	if replacedPhotoURL != "" && photoURL != nil && replacedPhotoURL != *photoURL {
		_ = s.uploader.RemoveProfilePhoto(ctx, replacedPhotoURL)
	}

	return profile, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (model.Profile, error) {
	if id <= 0 {
		return model.Profile{}, fmt.Errorf("invalid profile id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}

	return profile, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by user id: %w", err)
	}

	return profile, nil
}

func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return false, fmt.Errorf("profile store is nil")
	}

	exists, err := s.store.Exists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check profile exists: %w", err)
	}

	return exists, nil
}

func normalizeAndValidateInput(in UpsertInput) (pgrepo.ProfileUpsert, error) {
	if in.UserID <= 0 {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	name := strings.TrimSpace(in.Name)
	if !validate.RuneLenBetween(name, minNameRunes, maxNameRunes) {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("name must be %d to %d characters: %w", minNameRunes, maxNameRunes, ErrValidation)
	}

	gender, ok := enums.ParseGender(in.Gender)
	if !ok {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("unsupported gender %q: %w", in.Gender, ErrValidation)
	}

	if !validate.IntBetween(in.Age, minAge, maxAge) {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("age must be %d to %d: %w", minAge, maxAge, ErrValidation)
	}

	city := strings.TrimSpace(in.City)
	if !validate.Required(city) {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("city is required: %w", ErrValidation)
	}

	university := strings.TrimSpace(in.University)
	if !validate.Required(university) {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("university is required: %w", ErrValidation)
	}

	interests := validate.NonEmptyTrimmed(in.Interests)
	if len(interests) == 0 {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("interests are required: %w", ErrValidation)
	}

	goals := validate.NonEmptyTrimmed(in.Goals)
	if len(goals) == 0 {
		return pgrepo.ProfileUpsert{}, fmt.Errorf("goals are required: %w", ErrValidation)
	}

	var bio *string
	if in.Bio != nil {
		trimmed := strings.TrimSpace(*in.Bio)
		if !validate.MaxRunes(trimmed, maxBioRunes) {
			return pgrepo.ProfileUpsert{}, fmt.Errorf("bio must be at most %d characters: %w", maxBioRunes, ErrValidation)
		}
		if trimmed != "" {
			bio = &trimmed
		}
	}

	return pgrepo.ProfileUpsert{
		UserID:     in.UserID,
		Username:   trimOptional(in.Username),
		FirstName:  trimOptional(in.FirstName),
		LastName:   trimOptional(in.LastName),
		Name:       name,
		Gender:     string(gender),
		Age:        in.Age,
		City:       city,
		University: university,
		Interests:  interests,
		Goals:      goals,
		Bio:        bio,
	}, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
