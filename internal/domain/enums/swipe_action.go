package enums

import (
	"errors"
	"strings"
)

type SwipeAction string

const (
	SwipeActionLike SwipeAction = "like"
	SwipeActionPass SwipeAction = "pass"
)

var ErrUnknownSwipeAction = errors.New("unknown swipe action")

// ParseSwipeAction accepts any casing and surrounding whitespace.
func ParseSwipeAction(raw string) (SwipeAction, error) {
	switch SwipeAction(strings.ToLower(strings.TrimSpace(raw))) {
	case SwipeActionLike:
		return SwipeActionLike, nil
	case SwipeActionPass:
		return SwipeActionPass, nil
	default:
		return "", ErrUnknownSwipeAction
	}
}

func (a SwipeAction) Valid() bool {
	return a == SwipeActionLike || a == SwipeActionPass
}

func (a SwipeAction) String() string {
	return string(a)
}
