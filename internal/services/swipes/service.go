package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romatertia749-eng/StudNet/internal/domain/enums"
	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrTargetNotFound = errors.New("target profile not found")
	ErrAlreadyLiked   = errors.New("profile already liked")
)

// TooFastError reports a like rate limit hit and how long to back off.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return fmt.Sprintf("too many likes, retry after %ds", e.RetryAfterSec)
}

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, userID, targetProfileID int64, action string) (model.Swipe, error)
	HasLike(ctx context.Context, tx pgx.Tx, userID, targetProfileID int64) (bool, error)
}

type ProfileStore interface {
	GetByIDTx(ctx context.Context, tx pgx.Tx, profileID int64) (model.Profile, error)
	GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID int64) (model.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
}

type MatchStore interface {
	CreateOrGet(ctx context.Context, tx pgx.Tx, userA, userB int64) (model.Match, error)
}

type RateLimiter interface {
	AllowLike(ctx context.Context, userID int64) (int64, bool, error)
}

type LikeResult struct {
	Matched bool
	Match   model.Match
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	SwipeStore   SwipeStore
	ProfileStore ProfileStore
	MatchStore   MatchStore
	RateLimiter  RateLimiter
}

type Service struct {
	pool         *pgxpool.Pool
	swipeStore   SwipeStore
	profileStore ProfileStore
	matchStore   MatchStore
	rateLimiter  RateLimiter
	runTx        func(context.Context, *pgxpool.Pool, func(context.Context, pgx.Tx) error) error
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:         deps.Pool,
		swipeStore:   deps.SwipeStore,
		profileStore: deps.ProfileStore,
		matchStore:   deps.MatchStore,
		rateLimiter:  deps.RateLimiter,
		runTx:        pgrepo.WithTx,
	}
}

// Like records a like on a profile and forms a match when the target user
// already liked the caller back. Liking the same profile twice is a
// conflict; a recorded pass on the target forecloses a later like the same
// way. A caller without a profile of their own still gets the like
// recorded, but no match can form until their profile exists.
func (s *Service) Like(ctx context.Context, userID, targetProfileID int64) (LikeResult, error) {
	if userID <= 0 || targetProfileID <= 0 {
		return LikeResult{}, ErrValidation
	}

	// The limiter runs before anything touches storage so a burst is
	// rejected without opening a transaction.
	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowLike(ctx, userID)
		if err != nil {
			return LikeResult{}, fmt.Errorf("apply like rate limiter: %w", err)
		}
		if !allowed {
			return LikeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	if s.swipeStore == nil || s.profileStore == nil || s.matchStore == nil {
		return LikeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	result := LikeResult{}
	if err := s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		target, err := s.profileStore.GetByIDTx(txCtx, tx, targetProfileID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrProfileNotFound) {
				return ErrTargetNotFound
			}
			return err
		}
		if target.UserID == userID {
			return fmt.Errorf("cannot like own profile: %w", ErrValidation)
		}

		if _, err := s.swipeStore.Create(txCtx, tx, userID, targetProfileID, string(enums.SwipeActionLike)); err != nil {
			if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
				return ErrAlreadyLiked
			}
			if errors.Is(err, pgrepo.ErrSwipeTargetMissing) {
				return ErrTargetNotFound
			}
			return err
		}

		own, err := s.profileStore.GetByUserIDTx(txCtx, tx, userID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrProfileNotFound) {
				// The like stands, but a reciprocal like can only point at
				// the caller's own profile, so there is nothing to check.
				return nil
			}
			return err
		}

		liked, err := s.swipeStore.HasLike(txCtx, tx, target.UserID, own.ID)
		if err != nil {
			return err
		}
		if !liked {
			return nil
		}

		match, err := s.matchStore.CreateOrGet(txCtx, tx, userID, target.UserID)
		if err != nil {
			return err
		}
		result.Matched = true
		result.Match = match
		return nil
	}); err != nil {
		return LikeResult{}, err
	}

	return result, nil
}

// Pass records a pass on a profile. Passing the same profile again is a
// no-op so clients can replay safely.
func (s *Service) Pass(ctx context.Context, userID, targetProfileID int64) error {
	if userID <= 0 || targetProfileID <= 0 {
		return ErrValidation
	}
	if s.swipeStore == nil || s.profileStore == nil {
		return fmt.Errorf("swipe dependencies are not configured")
	}

	return s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		target, err := s.profileStore.GetByIDTx(txCtx, tx, targetProfileID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrProfileNotFound) {
				return ErrTargetNotFound
			}
			return err
		}
		if target.UserID == userID {
			return fmt.Errorf("cannot pass own profile: %w", ErrValidation)
		}

		if _, err := s.swipeStore.Create(txCtx, tx, userID, targetProfileID, string(enums.SwipeActionPass)); err != nil {
			if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
				return nil
			}
			if errors.Is(err, pgrepo.ErrSwipeTargetMissing) {
				return ErrTargetNotFound
			}
			return err
		}
		return nil
	})
}

// Respond answers an incoming like by its sender's user id: accept likes
// the sender's profile back, decline passes on it.
func (s *Service) Respond(ctx context.Context, userID, targetUserID int64, action string) (LikeResult, error) {
	if userID <= 0 || targetUserID <= 0 || userID == targetUserID {
		return LikeResult{}, ErrValidation
	}
	if s.profileStore == nil {
		return LikeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	targetProfile, err := s.profileStore.GetByUserID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return LikeResult{}, ErrTargetNotFound
		}
		return LikeResult{}, err
	}

	switch strings.ToLower(strings.TrimSpace(action)) {
	case "accept":
		return s.Like(ctx, userID, targetProfile.ID)
	case "decline":
		return LikeResult{}, s.Pass(ctx, userID, targetProfile.ID)
	default:
		return LikeResult{}, fmt.Errorf("unsupported respond action %q: %w", action, ErrValidation)
	}
}
