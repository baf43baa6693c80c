package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
	feedsvc "github.com/romatertia749-eng/StudNet/internal/services/feed"
)

type fixedFeedStore struct {
	candidates []model.Profile
}

func (s *fixedFeedStore) CountCandidates(ctx context.Context, q pgrepo.CandidateQuery) (int, error) {
	return len(s.candidates), nil
}

func (s *fixedFeedStore) ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]model.Profile, error) {
	if q.Offset >= len(s.candidates) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(s.candidates) {
		end = len(s.candidates)
	}
	return s.candidates[q.Offset:end], nil
}

func (s *fixedFeedStore) CountIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) (int, error) {
	return 0, nil
}

func (s *fixedFeedStore) ListIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) ([]model.Profile, error) {
	return nil, nil
}

type fixedProfileStore struct {
	profiles map[int64]model.Profile
}

func (s *fixedProfileStore) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

type fixedSwipeLedger struct{}

func (fixedSwipeLedger) SwipedProfileIDs(ctx context.Context, userID int64) ([]int64, error) {
	return []int64{}, nil
}

func (fixedSwipeLedger) LikerUserIDs(ctx context.Context, profileID int64) ([]int64, error) {
	return []int64{}, nil
}

type fixedMatchLedger struct{}

func (fixedMatchLedger) MatchedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	return []int64{}, nil
}

func newFeedService(store *fixedFeedStore, profiles *fixedProfileStore) *feedsvc.Service {
	return feedsvc.NewService(store, profiles, fixedSwipeLedger{}, fixedMatchLedger{})
}

func testProfile(id, userID int64) model.Profile {
	return model.Profile{
		ID:         id,
		UserID:     userID,
		Name:       "Test",
		Gender:     "male",
		Age:        20,
		City:       "Minsk",
		University: "BSU",
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
		UpdatedAt:  time.Unix(1700000000, 0).UTC(),
	}
}

func TestCandidatesRequiresUserID(t *testing.T) {
	h := NewFeedHandler(newFeedService(&fixedFeedStore{}, &fixedProfileStore{}))

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	rec := httptest.NewRecorder()
	h.Candidates(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCandidatesReturnsPageEnvelope(t *testing.T) {
	store := &fixedFeedStore{candidates: []model.Profile{
		testProfile(10, 2), testProfile(11, 3), testProfile(12, 4),
	}}
	viewer := &fixedProfileStore{profiles: map[int64]model.Profile{1: testProfile(1, 1)}}
	h := NewFeedHandler(newFeedService(store, viewer))

	req := httptest.NewRequest(http.MethodGet, "/profiles?user_id=1&page=0&size=2", nil)
	rec := httptest.NewRecorder()
	h.Candidates(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var payload struct {
		Content       []json.RawMessage `json:"content"`
		TotalElements int               `json:"total_elements"`
		TotalPages    int               `json:"total_pages"`
		Size          int               `json:"size"`
		Number        int               `json:"number"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(payload.Content) != 2 {
		t.Fatalf("unexpected page length: got %d want 2", len(payload.Content))
	}
	if payload.TotalElements != 3 || payload.TotalPages != 2 {
		t.Fatalf("unexpected totals: got %d/%d want 3/2", payload.TotalElements, payload.TotalPages)
	}
	if payload.Size != 2 || payload.Number != 0 {
		t.Fatalf("unexpected paging echo: size %d number %d", payload.Size, payload.Number)
	}
}

func TestCandidatesWithoutProfileReturnsEmptyPage(t *testing.T) {
	store := &fixedFeedStore{candidates: []model.Profile{testProfile(10, 2)}}
	h := NewFeedHandler(newFeedService(store, &fixedProfileStore{}))

	req := httptest.NewRequest(http.MethodGet, "/profiles?user_id=99", nil)
	rec := httptest.NewRecorder()
	h.Candidates(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Content       []json.RawMessage `json:"content"`
		TotalElements int               `json:"total_elements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Content) != 0 || payload.TotalElements != 0 {
		t.Fatalf("expected empty page, got %d items total %d", len(payload.Content), payload.TotalElements)
	}
}

func TestIncomingLikesRequiresUserID(t *testing.T) {
	h := NewFeedHandler(newFeedService(&fixedFeedStore{}, &fixedProfileStore{}))

	req := httptest.NewRequest(http.MethodGet, "/profiles/incoming-likes", nil)
	rec := httptest.NewRecorder()
	h.IncomingLikes(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}
