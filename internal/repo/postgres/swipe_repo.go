package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

const pgCheckViolation = "23514"

var ErrInvalidSwipe = errors.New("invalid swipe payload")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert writes the record for (swiperID, targetID) in a single statement, so
// concurrent writers on one key serialize on the primary key row.
func (r *SwipeRepo) Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction) (model.SwipeRecord, error) {
	if strings.TrimSpace(swiperID) == "" || strings.TrimSpace(targetID) == "" || !action.Valid() {
		return model.SwipeRecord{}, ErrInvalidSwipe
	}
	if r.pool == nil {
		return model.SwipeRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		rec       model.SwipeRecord
		rawAction string
	)
	err := r.pool.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	target_id,
	action,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (swiper_id, target_id) DO UPDATE SET
	action = EXCLUDED.action,
	created_at = EXCLUDED.created_at
RETURNING swiper_id, target_id, action, created_at
`, swiperID, targetID, string(action)).Scan(
		&rec.SwiperID,
		&rec.TargetID,
		&rawAction,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return model.SwipeRecord{}, ErrInvalidSwipe
		}
		return model.SwipeRecord{}, fmt.Errorf("upsert swipe: %w", err)
	}
	rec.Action = enums.SwipeAction(rawAction)
	rec.CreatedAt = rec.CreatedAt.UTC()

	return rec, nil
}

func (r *SwipeRepo) Query(ctx context.Context, filter model.SwipeFilter) ([]model.SwipeRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query, args := buildSwipeQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query swipes: %w", err)
	}
	defer rows.Close()

	items := make([]model.SwipeRecord, 0)
	for rows.Next() {
		var (
			rec       model.SwipeRecord
			rawAction string
		)
		if err := rows.Scan(&rec.SwiperID, &rec.TargetID, &rawAction, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		rec.Action = enums.SwipeAction(rawAction)
		rec.CreatedAt = rec.CreatedAt.UTC()
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swipes: %w", rows.Err())
	}

	return items, nil
}

func buildSwipeQuery(filter model.SwipeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, column+" = $"+strconv.Itoa(len(args)))
	}

	if filter.SwiperID != nil {
		add("swiper_id", *filter.SwiperID)
	}
	if filter.TargetID != nil {
		add("target_id", *filter.TargetID)
	}
	if filter.Action != nil {
		add("action", string(*filter.Action))
	}

	var b strings.Builder
	b.WriteString("SELECT swiper_id, target_id, action, created_at\nFROM swipes")
	if len(conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString("\nORDER BY created_at, swiper_id, target_id")

	return b.String(), args
}
