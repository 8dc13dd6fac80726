package dto

import "time"

type SwipeRequest struct {
	TargetID string `json:"target_id"`
	Action   string `json:"action"`
}

type SwipeRecordResponse struct {
	SwiperID  string    `json:"swiper_id"`
	TargetID  string    `json:"target_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type SwipeResponse struct {
	OK     bool                `json:"ok"`
	Record SwipeRecordResponse `json:"record"`
}
