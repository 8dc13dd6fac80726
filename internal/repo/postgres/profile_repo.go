package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, COALESCE(display_name, ''), COALESCE(bio, ''), photo_url, age
FROM profiles
WHERE id = $1
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// Upsert merges into the stored profile: blank or nil fields keep the
// stored values.
func (r *ProfileRepo) Upsert(ctx context.Context, profile model.Profile) error {
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("invalid profile id")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	id,
	display_name,
	bio,
	photo_url,
	age,
	created_at,
	updated_at
) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, NOW(), NOW())
ON CONFLICT (id) DO UPDATE SET
	display_name = COALESCE(EXCLUDED.display_name, profiles.display_name),
	bio = COALESCE(EXCLUDED.bio, profiles.bio),
	photo_url = COALESCE(EXCLUDED.photo_url, profiles.photo_url),
	age = COALESCE(EXCLUDED.age, profiles.age),
	updated_at = NOW()
`,
		strings.TrimSpace(profile.ID),
		strings.TrimSpace(profile.DisplayName),
		strings.TrimSpace(profile.Bio),
		optionalString(profile.PhotoURL),
		positiveAge(profile.Age),
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepo) ListAllExcept(ctx context.Context, userID string) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, COALESCE(display_name, ''), COALESCE(bio, ''), photo_url, age
FROM profiles
WHERE id <> $1
ORDER BY created_at, id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, profile)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return items, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		profile model.Profile
		photo   *string
		age     *int32
	)
	if err := row.Scan(&profile.ID, &profile.DisplayName, &profile.Bio, &photo, &age); err != nil {
		return model.Profile{}, err
	}
	profile.PhotoURL = photo
	if age != nil {
		v := int(*age)
		profile.Age = &v
	}
	return profile.Normalize(), nil
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func positiveAge(age *int) *int32 {
	if age == nil || *age <= 0 {
		return nil
	}
	v := int32(*age)
	return &v
}
