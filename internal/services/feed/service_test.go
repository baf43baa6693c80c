package feed

import (
	"context"
	"testing"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
	pgrepo "github.com/romatertia749-eng/StudNet/internal/repo/postgres"
)

type stubFeedStore struct {
	candidates []model.Profile
	incoming   []model.Profile

	lastCandidateQuery pgrepo.CandidateQuery
	lastIncomingQuery  pgrepo.IncomingLikesQuery
	listCalls          int
}

func (s *stubFeedStore) CountCandidates(ctx context.Context, q pgrepo.CandidateQuery) (int, error) {
	return len(s.filterCandidates(q)), nil
}

func (s *stubFeedStore) ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]model.Profile, error) {
	s.lastCandidateQuery = q
	s.listCalls++
	return slicePage(s.filterCandidates(q), q.Offset, q.Limit), nil
}

func (s *stubFeedStore) CountIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) (int, error) {
	return len(s.incoming), nil
}

func (s *stubFeedStore) ListIncomingLikes(ctx context.Context, q pgrepo.IncomingLikesQuery) ([]model.Profile, error) {
	s.lastIncomingQuery = q
	s.listCalls++
	return slicePage(s.incoming, q.Offset, q.Limit), nil
}

func (s *stubFeedStore) filterCandidates(q pgrepo.CandidateQuery) []model.Profile {
	out := make([]model.Profile, 0, len(s.candidates))
	for _, p := range s.candidates {
		if q.City != "" && p.City != q.City {
			continue
		}
		if q.University != "" && p.University != q.University {
			continue
		}
		out = append(out, p)
	}
	return out
}

func slicePage(items []model.Profile, offset, limit int) []model.Profile {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type stubProfileStore struct {
	byUserID map[int64]model.Profile
}

func (s *stubProfileStore) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	profile, ok := s.byUserID[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return profile, nil
}

type stubSwipeLedger struct {
	swiped map[int64][]int64
	likers map[int64][]int64
}

func (s *stubSwipeLedger) SwipedProfileIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.swiped[userID], nil
}

func (s *stubSwipeLedger) LikerUserIDs(ctx context.Context, profileID int64) ([]int64, error) {
	return s.likers[profileID], nil
}

type stubMatchLedger struct {
	matched map[int64][]int64
}

func (s *stubMatchLedger) MatchedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.matched[userID], nil
}

func newTestService(store *stubFeedStore, profiles *stubProfileStore) *Service {
	return NewService(store, profiles, &stubSwipeLedger{}, &stubMatchLedger{})
}

func viewerStore() *stubProfileStore {
	return &stubProfileStore{byUserID: map[int64]model.Profile{
		1: {ID: 99, UserID: 1, Name: "Viewer"},
	}}
}

func profilesN(n int) []model.Profile {
	out := make([]model.Profile, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Profile{
			ID:         int64(i + 1),
			UserID:     int64(100 + i),
			Name:       "Student",
			City:       "Minsk",
			University: "BSU",
		})
	}
	return out
}

func TestCandidatesPagination(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(45)}
	svc := newTestService(store, viewerStore())

	page, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1, Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}

	if page.TotalElements != 45 {
		t.Fatalf("unexpected total_elements: got %d want 45", page.TotalElements)
	}
	if page.TotalPages != 3 {
		t.Fatalf("unexpected total_pages: got %d want 3", page.TotalPages)
	}
	if page.Number != 1 || page.Size != 20 {
		t.Fatalf("unexpected page shape: number=%d size=%d", page.Number, page.Size)
	}
	if len(page.Content) != 20 {
		t.Fatalf("unexpected content length: got %d want 20", len(page.Content))
	}
	if page.Content[0].ID != 21 {
		t.Fatalf("unexpected first item on page 1: id=%d", page.Content[0].ID)
	}
}

func TestCandidatesLastPartialPage(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(45)}
	svc := newTestService(store, viewerStore())

	page, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1, Page: 2, Size: 20})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(page.Content) != 5 {
		t.Fatalf("unexpected last page length: got %d want 5", len(page.Content))
	}
}

func TestCandidatesBeyondLastPage(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(5)}
	svc := newTestService(store, viewerStore())

	page, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1, Page: 9, Size: 20})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(page.Content) != 0 {
		t.Fatalf("expected empty content past the last page, got %d items", len(page.Content))
	}
	if page.TotalElements != 5 || page.TotalPages != 1 {
		t.Fatalf("totals must survive an out-of-range page: %+v", page)
	}
	if store.listCalls != 0 {
		t.Fatalf("list should be skipped past the last page")
	}
}

func TestCandidatesDefaultsAndCaps(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(3)}
	svc := newTestService(store, viewerStore())

	page, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1, Page: -4, Size: 0})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if page.Number != 0 || page.Size != DefaultPageSize {
		t.Fatalf("paging was not normalized: number=%d size=%d", page.Number, page.Size)
	}

	page, err = svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1, Size: 5000})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if page.Size != MaxPageSize {
		t.Fatalf("size was not capped: got %d want %d", page.Size, MaxPageSize)
	}
}

func TestCandidatesFilters(t *testing.T) {
	candidates := profilesN(4)
	candidates[0].City = "Grodno"
	candidates[1].University = "BSUIR"
	store := &stubFeedStore{candidates: candidates}
	svc := newTestService(store, viewerStore())

	page, err := svc.Candidates(context.Background(), CandidatesRequest{
		ViewerUserID: 1,
		City:         "Minsk",
		University:   "BSU",
	})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if page.TotalElements != 2 {
		t.Fatalf("filters were not applied: got %d want 2", page.TotalElements)
	}
	if store.lastCandidateQuery.City != "Minsk" || store.lastCandidateQuery.University != "BSU" {
		t.Fatalf("filters were not passed through: %+v", store.lastCandidateQuery)
	}
}

func TestViewerWithoutProfileGetsEmptyPage(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(3), incoming: profilesN(2)}
	svc := newTestService(store, &stubProfileStore{byUserID: map[int64]model.Profile{}})

	page, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if page.TotalElements != 0 || len(page.Content) != 0 {
		t.Fatalf("expected empty page for viewer without profile, got %+v", page)
	}

	page, err = svc.IncomingLikes(context.Background(), IncomingLikesRequest{ViewerUserID: 1})
	if err != nil {
		t.Fatalf("incoming likes: %v", err)
	}
	if page.TotalElements != 0 || len(page.Content) != 0 {
		t.Fatalf("expected empty incoming page, got %+v", page)
	}
}

func TestIncomingLikes(t *testing.T) {
	store := &stubFeedStore{incoming: profilesN(2)}
	// Viewer's profile id is 99; users 100 and 101 liked it.
	ledger := &stubSwipeLedger{likers: map[int64][]int64{99: {100, 101}}}
	svc := NewService(store, viewerStore(), ledger, &stubMatchLedger{})

	page, err := svc.IncomingLikes(context.Background(), IncomingLikesRequest{ViewerUserID: 1})
	if err != nil {
		t.Fatalf("incoming likes: %v", err)
	}
	if page.TotalElements != 2 || len(page.Content) != 2 {
		t.Fatalf("unexpected incoming page: %+v", page)
	}
	if len(store.lastIncomingQuery.LikerUserIDs) != 2 {
		t.Fatalf("liker set was not passed through: %+v", store.lastIncomingQuery)
	}
}

func TestIncomingLikesWithoutLikersSkipsQuery(t *testing.T) {
	store := &stubFeedStore{incoming: profilesN(2)}
	svc := newTestService(store, viewerStore())

	page, err := svc.IncomingLikes(context.Background(), IncomingLikesRequest{ViewerUserID: 1})
	if err != nil {
		t.Fatalf("incoming likes: %v", err)
	}
	if page.TotalElements != 0 || len(page.Content) != 0 {
		t.Fatalf("expected empty page without likers, got %+v", page)
	}
	if store.listCalls != 0 {
		t.Fatalf("feed store should not be queried without likers")
	}
}

func TestCandidatesPassesExclusionSets(t *testing.T) {
	store := &stubFeedStore{candidates: profilesN(3)}
	ledger := &stubSwipeLedger{swiped: map[int64][]int64{1: {2, 3}}}
	matches := &stubMatchLedger{matched: map[int64][]int64{1: {102}}}
	svc := NewService(store, viewerStore(), ledger, matches)

	if _, err := svc.Candidates(context.Background(), CandidatesRequest{ViewerUserID: 1}); err != nil {
		t.Fatalf("candidates: %v", err)
	}

	q := store.lastCandidateQuery
	if len(q.ExcludeProfileIDs) != 2 || q.ExcludeProfileIDs[0] != 2 {
		t.Fatalf("swiped profile ids were not passed through: %+v", q)
	}
	if len(q.ExcludeUserIDs) != 1 || q.ExcludeUserIDs[0] != 102 {
		t.Fatalf("matched user ids were not passed through: %+v", q)
	}
}
