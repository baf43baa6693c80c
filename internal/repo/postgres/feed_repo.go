package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
)

type FeedRepo struct {
	pool *pgxpool.Pool
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// CandidateQuery filters the browse feed. The exclusion sets are computed by
// the caller from the swipe ledger and the match table: profile ids the
// viewer already acted on and user ids the viewer is already matched with.
type CandidateQuery struct {
	ViewerUserID      int64
	ExcludeProfileIDs []int64
	ExcludeUserIDs    []int64
	City              string
	University        string
	Offset            int
	Limit             int
}

// candidateFilter drops the viewer's own profile and everything in the
// exclusion sets. Empty sets must arrive as empty arrays, not NULL.
const candidateFilter = `
	p.user_id <> $1
	AND NOT (p.id = ANY($2))
	AND NOT (p.user_id = ANY($3))
	AND ($4 = '' OR p.city = $4)
	AND ($5 = '' OR p.university = $5)
`

func (r *FeedRepo) CountCandidates(ctx context.Context, q CandidateQuery) (int, error) {
	if q.ViewerUserID <= 0 {
		return 0, fmt.Errorf("invalid viewer id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var total int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM profiles p
WHERE `+candidateFilter,
		q.ViewerUserID,
		nonNilIDs(q.ExcludeProfileIDs),
		nonNilIDs(q.ExcludeUserIDs),
		strings.TrimSpace(q.City),
		strings.TrimSpace(q.University),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count feed candidates: %w", err)
	}

	return total, nil
}

func (r *FeedRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]model.Profile, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if r.pool == nil {
		return []model.Profile{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE `+candidateFilter+`
ORDER BY p.id ASC
OFFSET $6
LIMIT $7
`,
		q.ViewerUserID,
		nonNilIDs(q.ExcludeProfileIDs),
		nonNilIDs(q.ExcludeUserIDs),
		strings.TrimSpace(q.City),
		strings.TrimSpace(q.University),
		q.Offset,
		q.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, q.Limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed candidate: %w", err)
		}
		items = append(items, profile)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate feed candidates: %w", rows.Err())
	}

	return items, nil
}

// IncomingLikesQuery lists profiles of the users in LikerUserIDs, minus the
// profiles the viewer already answered (ExcludeProfileIDs, the viewer's
// swiped set).
type IncomingLikesQuery struct {
	LikerUserIDs      []int64
	ExcludeProfileIDs []int64
	Offset            int
	Limit             int
}

const incomingFilter = `
	p.user_id = ANY($1)
	AND NOT (p.id = ANY($2))
`

func (r *FeedRepo) CountIncomingLikes(ctx context.Context, q IncomingLikesQuery) (int, error) {
	if len(q.LikerUserIDs) == 0 {
		return 0, nil
	}
	if r.pool == nil {
		return 0, nil
	}

	var total int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM profiles p
WHERE `+incomingFilter, q.LikerUserIDs, nonNilIDs(q.ExcludeProfileIDs)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count incoming likes: %w", err)
	}

	return total, nil
}

func (r *FeedRepo) ListIncomingLikes(ctx context.Context, q IncomingLikesQuery) ([]model.Profile, error) {
	if len(q.LikerUserIDs) == 0 {
		return []model.Profile{}, nil
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if r.pool == nil {
		return []model.Profile{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles p
WHERE `+incomingFilter+`
ORDER BY p.id ASC
OFFSET $3
LIMIT $4
`, q.LikerUserIDs, nonNilIDs(q.ExcludeProfileIDs), q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, q.Limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incoming like profile: %w", err)
		}
		items = append(items, profile)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate incoming likes: %w", rows.Err())
	}

	return items, nil
}

// nonNilIDs keeps empty sets encoding as empty arrays: a NULL array would
// make the = ANY comparison three-valued and swallow every row.
func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
