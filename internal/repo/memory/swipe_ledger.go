package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

var ErrInvalidSwipe = errors.New("invalid swipe payload")

type SwipeLedger struct {
	mu      sync.RWMutex
	order   []model.SwipeKey
	records map[model.SwipeKey]model.SwipeRecord
	now     func() time.Time
}

func NewSwipeLedger() *SwipeLedger {
	return &SwipeLedger{
		records: make(map[model.SwipeKey]model.SwipeRecord),
		now:     time.Now,
	}
}

// WithClock replaces the timestamp source used for new writes.
func (l *SwipeLedger) WithClock(now func() time.Time) *SwipeLedger {
	if now != nil {
		l.now = now
	}
	return l
}

// Upsert replaces the whole record under the ledger lock, so each key sees a
// serial order of writes.
func (l *SwipeLedger) Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction) (model.SwipeRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.SwipeRecord{}, err
	}
	if strings.TrimSpace(swiperID) == "" || strings.TrimSpace(targetID) == "" || swiperID == targetID || !action.Valid() {
		return model.SwipeRecord{}, ErrInvalidSwipe
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := model.SwipeRecord{
		SwiperID:  swiperID,
		TargetID:  targetID,
		Action:    action,
		CreatedAt: l.now().UTC(),
	}
	if _, exists := l.records[rec.Key()]; !exists {
		l.order = append(l.order, rec.Key())
	}
	l.records[rec.Key()] = rec
	return rec, nil
}

func (l *SwipeLedger) Query(ctx context.Context, filter model.SwipeFilter) ([]model.SwipeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]model.SwipeRecord, 0)
	for _, key := range l.order {
		rec := l.records[key]
		if filter.Matches(rec) {
			items = append(items, rec)
		}
	}
	return items, nil
}

// Len reports the number of distinct (swiper, target) keys.
func (l *SwipeLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
