package model

import "time"

// Match is derived from two mutual like records and is never stored.
type Match struct {
	User      Profile   `json:"user"`
	MatchedAt time.Time `json:"matched_at"`
}
