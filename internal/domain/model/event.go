package model

import "time"

const (
	EventCandidatesLoaded = "candidates_loaded"
	EventSwipeCommitted   = "swipe_committed"
	EventMatchesLoaded    = "matches_loaded"
	EventError            = "error"
)

const (
	ErrorKindFetch       = "fetch"
	ErrorKindSwipeRecord = "swipe_record"
	ErrorKindMatchQuery  = "match_query"
)

// Event is the envelope published to a user's engine channel.
type Event struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	UserID  string         `json:"user_id"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload"`
}
