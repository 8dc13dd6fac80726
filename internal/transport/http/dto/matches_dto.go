package dto

import "time"

type MatchItemResponse struct {
	User      ProfileResponse `json:"user"`
	MatchedAt time.Time       `json:"matched_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}
