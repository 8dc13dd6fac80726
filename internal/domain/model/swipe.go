package model

import (
	"time"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
)

type SwipeKey struct {
	SwiperID string
	TargetID string
}

type SwipeRecord struct {
	SwiperID  string            `json:"swiper_id"`
	TargetID  string            `json:"target_id"`
	Action    enums.SwipeAction `json:"action"`
	CreatedAt time.Time         `json:"created_at"`
}

func (r SwipeRecord) Key() SwipeKey {
	return SwipeKey{SwiperID: r.SwiperID, TargetID: r.TargetID}
}

// SwipeFilter selects ledger records; nil fields match anything.
type SwipeFilter struct {
	SwiperID *string
	TargetID *string
	Action   *enums.SwipeAction
}

func (f SwipeFilter) Matches(rec SwipeRecord) bool {
	if f.SwiperID != nil && *f.SwiperID != rec.SwiperID {
		return false
	}
	if f.TargetID != nil && *f.TargetID != rec.TargetID {
		return false
	}
	if f.Action != nil && *f.Action != rec.Action {
		return false
	}
	return true
}
