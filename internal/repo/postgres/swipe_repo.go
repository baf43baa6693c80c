package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romatertia749-eng/StudNet/internal/domain/enums"
	"github.com/romatertia749-eng/StudNet/internal/domain/model"
)

var (
	ErrDuplicateSwipe     = errors.New("duplicate swipe")
	ErrSwipeTargetMissing = errors.New("swipe target profile not found")
)

const foreignKeyViolationCode = "23503"

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Create appends one decision row. The ledger is append-only: the unique
// constraint on (user_id, target_profile_id) rejects a second decision on the
// same directed pair, which is reported as ErrDuplicateSwipe.
func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, userID, targetProfileID int64, action string) (model.Swipe, error) {
	if userID <= 0 || targetProfileID <= 0 {
		return model.Swipe{}, fmt.Errorf("invalid swipe payload")
	}
	if _, ok := enums.ParseSwipeAction(action); !ok {
		return model.Swipe{}, fmt.Errorf("unknown swipe action %q", action)
	}
	if tx == nil {
		return model.Swipe{}, fmt.Errorf("transaction is required")
	}

	var rec model.Swipe
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	user_id,
	target_profile_id,
	action,
	created_at
) VALUES ($1, $2, $3, NOW())
RETURNING id, user_id, target_profile_id, action, created_at
`, userID, targetProfileID, action).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TargetProfileID,
		&rec.Action,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolationCode:
				return model.Swipe{}, ErrDuplicateSwipe
			case foreignKeyViolationCode:
				return model.Swipe{}, ErrSwipeTargetMissing
			}
		}
		return model.Swipe{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// HasLike reports whether userID has recorded a "like" toward the profile.
func (r *SwipeRepo) HasLike(ctx context.Context, tx pgx.Tx, userID, targetProfileID int64) (bool, error) {
	if userID <= 0 || targetProfileID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE user_id = $1 AND target_profile_id = $2 AND action = 'like'
LIMIT 1
`, userID, targetProfileID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return true, nil
}

// SwipedProfileIDs returns every profile id the user has acted on, in any
// direction of decision. Used for feed exclusion.
func (r *SwipeRepo) SwipedProfileIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT target_profile_id
FROM swipes
WHERE user_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swiped profile ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped profile id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped profile ids: %w", rows.Err())
	}

	return ids, nil
}

// LikerUserIDs returns every user who recorded a "like" toward the profile.
func (r *SwipeRepo) LikerUserIDs(ctx context.Context, profileID int64) ([]int64, error) {
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT user_id
FROM swipes
WHERE target_profile_id = $1 AND action = 'like'
ORDER BY created_at ASC, id ASC
`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liker user id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate likers: %w", rows.Err())
	}

	return ids, nil
}
