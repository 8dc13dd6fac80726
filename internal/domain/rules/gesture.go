package rules

import "github.com/ivankudzin/matchdeck/internal/domain/enums"

const (
	DefaultSwipeThresholdRatio = 0.3
	DismissDistanceRatio       = 1.5
	RotationDivisor            = 10.0
	NextCardScale              = 0.95
	NextCardOpacity            = 0.8
)

// SwipeThreshold is the horizontal distance a drag must exceed to commit.
func SwipeThreshold(viewportWidth, ratio float64) float64 {
	if ratio <= 0 {
		ratio = DefaultSwipeThresholdRatio
	}
	if viewportWidth < 0 {
		viewportWidth = 0
	}
	return viewportWidth * ratio
}

// ClassifyRelease resolves the horizontal offset at gesture end. An offset
// exactly on the threshold snaps back.
func ClassifyRelease(offsetX, threshold float64) (enums.SwipeAction, bool) {
	switch {
	case offsetX > threshold:
		return enums.SwipeActionLike, true
	case offsetX < -threshold:
		return enums.SwipeActionPass, true
	default:
		return "", false
	}
}

// DismissOffset is where a committed card flies to.
func DismissOffset(action enums.SwipeAction, viewportWidth float64) float64 {
	if action == enums.SwipeActionPass {
		return -viewportWidth * DismissDistanceRatio
	}
	return viewportWidth * DismissDistanceRatio
}

func RotationDegrees(offsetX float64) float64 {
	return offsetX / RotationDivisor
}
