package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrValidation = errors.New("validation error")

type FeedStore interface {
	CountCandidates(ctx context.Context, q pgrepo.CandidateQuery) (int, error)
	ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]model.Profile, error)
	CountIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) (int, error)
	ListIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) ([]model.Profile, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
}

type SwipeStore interface {
	SwipedProfileIDs(ctx context.Context, userID int64) ([]int64, error)
	LikerUserIDs(ctx context.Context, profileID int64) ([]int64, error)
}

type MatchStore interface {
	MatchedUserIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Page carries one slice of results plus the totals clients use to page
// through the rest.
type Page struct {
	Content       []model.Profile
	TotalElements int
	TotalPages    int
	Size          int
	Number        int
}

type CandidatesRequest struct {
	ViewerUserID int64
	City         string
	University   string
	Page         int
	Size         int
}

type IncomingLikesRequest struct {
	ViewerUserID int64
	Page         int
	Size         int
}

type Service struct {
	feedStore    FeedStore
	profileStore ProfileStore
	swipeStore   SwipeStore
	matchStore   MatchStore
}

func NewService(feedStore FeedStore, profileStore ProfileStore, swipeStore SwipeStore, matchStore MatchStore) *Service {
	return &Service{
		feedStore:    feedStore,
		profileStore: profileStore,
		swipeStore:   swipeStore,
		matchStore:   matchStore,
	}
}

// Candidates returns profiles the viewer has not acted on yet, optionally
// narrowed by city and university. The viewer's own profile, everything
// already swiped and all matched users stay out of the page. A viewer
// without a profile gets an empty page, not an error.
func (s *Service) Candidates(ctx context.Context, req CandidatesRequest) (Page, error) {
	if req.ViewerUserID <= 0 {
		return Page{}, ErrValidation
	}
	if s.feedStore == nil || s.profileStore == nil || s.swipeStore == nil || s.matchStore == nil {
		return Page{}, fmt.Errorf("feed dependencies are not configured")
	}

	page, size := normalizePaging(req.Page, req.Size)
	if _, err := s.profileStore.GetByUserID(ctx, req.ViewerUserID); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return buildPage(nil, 0, size, page), nil
		}
		return Page{}, fmt.Errorf("load viewer profile: %w", err)
	}

	swiped, err := s.swipeStore.SwipedProfileIDs(ctx, req.ViewerUserID)
	if err != nil {
		return Page{}, fmt.Errorf("load swiped profile ids: %w", err)
	}
	matched, err := s.matchStore.MatchedUserIDs(ctx, req.ViewerUserID)
	if err != nil {
		return Page{}, fmt.Errorf("load matched user ids: %w", err)
	}

	query := pgrepo.CandidateQuery{
		ViewerUserID:      req.ViewerUserID,
		ExcludeProfileIDs: swiped,
		ExcludeUserIDs:    matched,
		City:              req.City,
		University:        req.University,
		Offset:            page * size,
		Limit:             size,
	}

	total, err := s.feedStore.CountCandidates(ctx, query)
	if err != nil {
		return Page{}, err
	}

	content := []model.Profile{}
	if total > 0 && query.Offset < total {
		content, err = s.feedStore.ListCandidates(ctx, query)
		if err != nil {
			return Page{}, err
		}
	}

	return buildPage(content, total, size, page), nil
}

// IncomingLikes returns profiles of users who liked the viewer and have not
// been answered yet. Like Candidates, a viewer without a profile gets an
// empty page.
func (s *Service) IncomingLikes(ctx context.Context, req IncomingLikesRequest) (Page, error) {
	if req.ViewerUserID <= 0 {
		return Page{}, ErrValidation
	}
	if s.feedStore == nil || s.profileStore == nil || s.swipeStore == nil {
		return Page{}, fmt.Errorf("feed dependencies are not configured")
	}

	page, size := normalizePaging(req.Page, req.Size)
	own, err := s.profileStore.GetByUserID(ctx, req.ViewerUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return buildPage(nil, 0, size, page), nil
		}
		return Page{}, fmt.Errorf("load viewer profile: %w", err)
	}

	likers, err := s.swipeStore.LikerUserIDs(ctx, own.ID)
	if err != nil {
		return Page{}, fmt.Errorf("load likers: %w", err)
	}
	if len(likers) == 0 {
		return buildPage(nil, 0, size, page), nil
	}

	// A liker already answered by the viewer, like or pass, drops out here;
	// a mutual like implies a swipe too, so matched likers are covered.
	swiped, err := s.swipeStore.SwipedProfileIDs(ctx, req.ViewerUserID)
	if err != nil {
		return Page{}, fmt.Errorf("load swiped profile ids: %w", err)
	}

	query := pgrepo.IncomingLikesQuery{
		LikerUserIDs:      likers,
		ExcludeProfileIDs: swiped,
		Offset:            page * size,
		Limit:             size,
	}

	total, err := s.feedStore.CountIncomingLikes(ctx, query)
	if err != nil {
		return Page{}, err
	}

	content := []model.Profile{}
	if total > 0 && query.Offset < total {
		content, err = s.feedStore.ListIncomingLikes(ctx, query)
		if err != nil {
			return Page{}, err
		}
	}

	return buildPage(content, total, size, page), nil
}

func normalizePaging(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func buildPage(content []model.Profile, total, size, number int) Page {
	if content == nil {
		content = []model.Profile{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        number,
	}
}
