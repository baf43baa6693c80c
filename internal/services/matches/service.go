package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64) ([]model.Match, error)
	ListUnnotified(ctx context.Context, limit int) ([]pgrepo.UnnotifiedMatch, error)
	MarkNotified(ctx context.Context, matchID, userID int64, at time.Time) error
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
}

type Service struct {
	matchStore   MatchStore
	profileStore ProfileStore
	now          func() time.Time
}

// MatchItem is one match from the caller's point of view with the other
// side's profile attached.
type MatchItem struct {
	ID        int64
	UserID    int64
	Profile   model.Profile
	MatchedAt time.Time
}

func NewService(matchStore MatchStore, profileStore ProfileStore) *Service {
	return &Service{
		matchStore:   matchStore,
		profileStore: profileStore,
		now:          time.Now,
	}
}

// ListForUser returns the caller's matches oldest first. Matches whose
// counterpart no longer has a profile are skipped rather than surfaced
// half-empty.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil || s.profileStore == nil {
		return nil, fmt.Errorf("match dependencies are not configured")
	}

	rows, err := s.matchStore.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		otherID := row.OtherUserID(userID)
		profile, err := s.profileStore.GetByUserID(ctx, otherID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrProfileNotFound) {
				continue
			}
			return nil, fmt.Errorf("load counterpart profile: %w", err)
		}
		items = append(items, MatchItem{
			ID:        row.ID,
			UserID:    otherID,
			Profile:   profile,
			MatchedAt: row.MatchedAt,
		})
	}

	return items, nil
}

// PendingNotification is a match side that has not been told about the
// match yet.
type PendingNotification struct {
	MatchID     int64
	UserID      int64
	OtherUserID int64
	MatchedAt   time.Time
}

func (s *Service) ListPendingNotifications(ctx context.Context, limit int) ([]PendingNotification, error) {
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.matchStore.ListUnnotified(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list unnotified matches: %w", err)
	}

	items := make([]PendingNotification, 0, len(rows))
	for _, row := range rows {
		items = append(items, PendingNotification{
			MatchID:     row.Match.ID,
			UserID:      row.NotifyUserID,
			OtherUserID: row.Match.OtherUserID(row.NotifyUserID),
			MatchedAt:   row.Match.MatchedAt,
		})
	}
	return items, nil
}

func (s *Service) MarkNotified(ctx context.Context, matchID, userID int64) error {
	if matchID <= 0 || userID <= 0 {
		return ErrValidation
	}
	if s.matchStore == nil {
		return fmt.Errorf("match store is nil")
	}
	if err := s.matchStore.MarkNotified(ctx, matchID, userID, s.now().UTC()); err != nil {
		return fmt.Errorf("mark match notified: %w", err)
	}
	return nil
}
