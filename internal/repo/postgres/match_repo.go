package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/romatertia749-eng/StudNet/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateOrGet inserts the match row for the canonical pair
// (min(userA,userB), max(userA,userB)). The insert is idempotent: when the
// pair already exists the stored row is returned unchanged.
func (r *MatchRepo) CreateOrGet(ctx context.Context, tx pgx.Tx, userA, userB int64) (model.Match, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return model.Match{}, fmt.Errorf("invalid match pair")
	}
	if tx == nil {
		return model.Match{}, fmt.Errorf("transaction is required")
	}

	user1, user2 := userA, userB
	if user1 > user2 {
		user1, user2 = user2, user1
	}

	var m model.Match
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user1_id,
	user2_id,
	matched_at
) VALUES ($1, $2, NOW())
ON CONFLICT (user1_id, user2_id) DO NOTHING
RETURNING id, user1_id, user2_id, matched_at
`, user1, user2).Scan(&m.ID, &m.User1ID, &m.User2ID, &m.MatchedAt)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Match{}, fmt.Errorf("create match: %w", err)
	}

	// DO NOTHING returns no row when the pair exists; read the stored one.
	err = tx.QueryRow(ctx, `
SELECT id, user1_id, user2_id, matched_at
FROM matches
WHERE user1_id = $1 AND user2_id = $2
LIMIT 1
`, user1, user2).Scan(&m.ID, &m.User1ID, &m.User2ID, &m.MatchedAt)
	if err != nil {
		return model.Match{}, fmt.Errorf("get existing match: %w", err)
	}

	return m, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID int64) ([]model.Match, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []model.Match{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user1_id, user2_id, matched_at
FROM matches
WHERE user1_id = $1 OR user2_id = $1
ORDER BY matched_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.Match, 0, 16)
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.MatchedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

// MatchedUserIDs returns the counterpart user id of every match the user
// participates in. Used for feed exclusion.
func (r *MatchRepo) MatchedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
FROM matches
WHERE user1_id = $1 OR user2_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matched user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan matched user id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matched user ids: %w", rows.Err())
	}

	return ids, nil
}

type UnnotifiedMatch struct {
	Match        model.Match
	NotifyUserID int64
}

// ListUnnotified returns (match, user) pairs that have no delivery record in
// match_notifications yet. The matches table itself stays immutable; the bot
// keeps its own ledger.
func (r *MatchRepo) ListUnnotified(ctx context.Context, limit int) ([]UnnotifiedMatch, error) {
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []UnnotifiedMatch{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.user1_id, m.user2_id, m.matched_at, u.user_id
FROM matches m
CROSS JOIN LATERAL (VALUES (m.user1_id), (m.user2_id)) AS u(user_id)
WHERE NOT EXISTS (
	SELECT 1
	FROM match_notifications n
	WHERE n.match_id = m.id AND n.user_id = u.user_id
)
ORDER BY m.matched_at ASC, m.id ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unnotified matches: %w", err)
	}
	defer rows.Close()

	items := make([]UnnotifiedMatch, 0, limit)
	for rows.Next() {
		var item UnnotifiedMatch
		if err := rows.Scan(
			&item.Match.ID,
			&item.Match.User1ID,
			&item.Match.User2ID,
			&item.Match.MatchedAt,
			&item.NotifyUserID,
		); err != nil {
			return nil, fmt.Errorf("scan unnotified match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate unnotified matches: %w", rows.Err())
	}

	return items, nil
}

func (r *MatchRepo) MarkNotified(ctx context.Context, matchID, userID int64, at time.Time) error {
	if matchID <= 0 || userID <= 0 {
		return fmt.Errorf("invalid notification payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO match_notifications (
	match_id,
	user_id,
	sent_at
) VALUES ($1, $2, $3)
ON CONFLICT (match_id, user_id) DO NOTHING
`, matchID, userID, at.UTC()); err != nil {
		return fmt.Errorf("mark match notified: %w", err)
	}

	return nil
}
