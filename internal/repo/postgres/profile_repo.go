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

var ErrProfileNotFound = errors.New("profile not found")

const uniqueViolationCode = "23505"

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type ProfileUpsert struct {
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
	PhotoURL   *string
}

const profileColumns = `
id, user_id, username, first_name, last_name, name, gender, age,
city, university, interests, goals, bio, photo_url, created_at, updated_at
`

func (r *ProfileRepo) Upsert(ctx context.Context, p ProfileUpsert) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}
	if p.UserID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid profile payload")
	}

	profile, err := r.upsertOnce(ctx, p)
	if err != nil {
		// Two concurrent first submissions for the same user_id can both take
		// the insert arm; the loser sees a unique violation after the row
		// exists, so a single retry lands on the update arm.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return r.upsertOnce(ctx, p)
		}
		return model.Profile{}, err
	}

	return profile, nil
}

func (r *ProfileRepo) upsertOnce(ctx context.Context, p ProfileUpsert) (model.Profile, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	user_id,
	username,
	first_name,
	last_name,
	name,
	gender,
	age,
	city,
	university,
	interests,
	goals,
	bio,
	photo_url,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	username = EXCLUDED.username,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	name = EXCLUDED.name,
	gender = EXCLUDED.gender,
	age = EXCLUDED.age,
	city = EXCLUDED.city,
	university = EXCLUDED.university,
	interests = EXCLUDED.interests,
	goals = EXCLUDED.goals,
	bio = EXCLUDED.bio,
	photo_url = COALESCE(EXCLUDED.photo_url, profiles.photo_url),
	updated_at = NOW()
RETURNING `+profileColumns,
		p.UserID,
		p.Username,
		p.FirstName,
		p.LastName,
		p.Name,
		p.Gender,
		p.Age,
		p.City,
		p.University,
		p.Interests,
		p.Goals,
		p.Bio,
		p.PhotoURL,
	)

	profile, err := scanProfile(row)
	if err != nil {
		return model.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, profileID int64) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}
	if profileID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid profile id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE id = $1
LIMIT 1
`, profileID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by user id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check profile exists: %w", err)
	}

	return true, nil
}

// GetByIDTx resolves a profile inside an open transaction so the
// target-exists check and the swipe insert see one snapshot.
func (r *ProfileRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, profileID int64) (model.Profile, error) {
	if tx == nil {
		return model.Profile{}, fmt.Errorf("transaction is required")
	}
	if profileID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid profile id")
	}

	row := tx.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE id = $1
LIMIT 1
`, profileID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id in tx: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) GetByUserIDTx(ctx context.Context, tx pgx.Tx, userID int64) (model.Profile, error) {
	if tx == nil {
		return model.Profile{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}

	row := tx.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by user id in tx: %w", err)
	}

	return profile, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (model.Profile, error) {
	var (
		p      model.Profile
		gender string
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.Name,
		&gender,
		&p.Age,
		&p.City,
		&p.University,
		&p.Interests,
		&p.Goals,
		&p.Bio,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}

	p.Gender = enums.Gender(gender)
	return p, nil
}
