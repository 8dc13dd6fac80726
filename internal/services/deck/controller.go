// Package deck drives the swipe card stack of one user session. It turns a
// drag gesture or a button press into exactly one recorded decision and then
// advances to the next candidate.
//
// A Controller is not safe for concurrent use.
package deck

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/domain/rules"
)

type State string

const (
	StateIdle      State = "idle"
	StateDragging  State = "dragging"
	StateExhausted State = "exhausted"
)

type FailurePolicy string

const (
	// FailOpen logs a failed write and advances anyway.
	FailOpen FailurePolicy = "fail_open"
	// FailClosed keeps the card on top and returns the error.
	FailClosed FailurePolicy = "fail_closed"
)

const (
	RoleTop  = "top"
	RoleNext = "next"
)

var (
	ErrExhausted            = errors.New("deck is exhausted")
	ErrNotDragging          = errors.New("no drag in progress")
	ErrUnknownFailurePolicy = errors.New("unknown failure policy")
	ErrInvalidViewport      = errors.New("viewport width must be positive")
)

func ParseFailurePolicy(raw string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FailOpen:
		return FailOpen, nil
	case FailClosed:
		return FailClosed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFailurePolicy, raw)
	}
}

type Selector interface {
	Select(ctx context.Context, requestingUserID string) ([]model.Profile, error)
}

type Recorder interface {
	Record(ctx context.Context, swiperID, targetID, action string) (model.SwipeRecord, error)
}

type Config struct {
	ThresholdRatio float64
	ViewportWidth  float64
	FailurePolicy  FailurePolicy
}

type Dependencies struct {
	Selector Selector
	Recorder Recorder
	Logger   *zap.Logger
}

// CardView is what a renderer needs to draw one visible card.
type CardView struct {
	Profile     model.Profile
	Role        string
	OffsetX     float64
	OffsetY     float64
	Rotation    float64
	Scale       float64
	Opacity     float64
	Interactive bool
}

// Outcome describes the result of ending a gesture or pressing a button.
// RecordErr is set when a write failed under FailOpen.
type Outcome struct {
	Committed      bool
	Action         enums.SwipeAction
	TargetID       string
	Record         model.SwipeRecord
	DismissOffsetX float64
	RecordErr      error
}

type Controller struct {
	userID   string
	selector Selector
	recorder Recorder
	logger   *zap.Logger
	cfg      Config

	queue   []model.Profile
	cursor  int
	state   State
	offsetX float64
	offsetY float64
}

// NewController rejects a non-positive viewport: a zero threshold would
// commit any drag.
func NewController(userID string, deps Dependencies, cfg Config) (*Controller, error) {
	if !(cfg.ViewportWidth > 0) || math.IsInf(cfg.ViewportWidth, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidViewport, cfg.ViewportWidth)
	}
	if cfg.ThresholdRatio <= 0 {
		cfg.ThresholdRatio = rules.DefaultSwipeThresholdRatio
	}
	if cfg.FailurePolicy == "" {
		cfg.FailurePolicy = FailOpen
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		userID:   strings.TrimSpace(userID),
		selector: deps.Selector,
		recorder: deps.Recorder,
		logger:   logger,
		cfg:      cfg,
		state:    StateExhausted,
	}, nil
}

// Load replaces the queue with a fresh candidate list and resets the cursor.
// On failure the deck is left empty.
func (c *Controller) Load(ctx context.Context) error {
	c.queue = nil
	c.cursor = 0
	c.resetOffset()
	c.state = StateExhausted

	if c.selector == nil {
		return fmt.Errorf("candidate selector is not configured")
	}

	profiles, err := c.selector.Select(ctx, c.userID)
	if err != nil {
		return err
	}

	c.queue = profiles
	c.settle()
	return nil
}

func (c *Controller) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Exhausted() bool {
	return c.state == StateExhausted
}

func (c *Controller) Remaining() int {
	return len(c.queue) - c.cursor
}

func (c *Controller) Threshold() float64 {
	return rules.SwipeThreshold(c.cfg.ViewportWidth, c.cfg.ThresholdRatio)
}

// Top returns the interactive card under the user's finger.
func (c *Controller) Top() (CardView, bool) {
	if c.cursor >= len(c.queue) {
		return CardView{}, false
	}
	return CardView{
		Profile:     c.queue[c.cursor],
		Role:        RoleTop,
		OffsetX:     c.offsetX,
		OffsetY:     c.offsetY,
		Rotation:    rules.RotationDegrees(c.offsetX),
		Scale:       1,
		Opacity:     1,
		Interactive: true,
	}, true
}

// Next returns the card stacked behind the top one.
func (c *Controller) Next() (CardView, bool) {
	if c.cursor+1 >= len(c.queue) {
		return CardView{}, false
	}
	return CardView{
		Profile: c.queue[c.cursor+1],
		Role:    RoleNext,
		Scale:   rules.NextCardScale,
		Opacity: rules.NextCardOpacity,
	}, true
}

func (c *Controller) BeginDrag() error {
	if c.state == StateExhausted {
		return ErrExhausted
	}
	c.resetOffset()
	c.state = StateDragging
	return nil
}

// DragTo sets the card translation relative to where the drag began.
func (c *Controller) DragTo(x, y float64) error {
	if c.state != StateDragging {
		return ErrNotDragging
	}
	c.offsetX = x
	c.offsetY = y
	return nil
}

// EndDrag commits when the horizontal offset is beyond the threshold and
// snaps the card back otherwise.
func (c *Controller) EndDrag(ctx context.Context) (Outcome, error) {
	if c.state != StateDragging {
		return Outcome{}, ErrNotDragging
	}

	action, ok := rules.ClassifyRelease(c.offsetX, c.Threshold())
	if !ok {
		c.resetOffset()
		c.state = StateIdle
		return Outcome{}, nil
	}
	return c.commit(ctx, action)
}

// Press commits action for the top card without a drag phase.
func (c *Controller) Press(ctx context.Context, action enums.SwipeAction) (Outcome, error) {
	if c.state == StateExhausted {
		return Outcome{}, ErrExhausted
	}
	if !action.Valid() {
		return Outcome{}, enums.ErrUnknownSwipeAction
	}
	return c.commit(ctx, action)
}

func (c *Controller) commit(ctx context.Context, action enums.SwipeAction) (Outcome, error) {
	top := c.queue[c.cursor]
	outcome := Outcome{
		Committed:      true,
		Action:         action,
		TargetID:       top.ID,
		DismissOffsetX: rules.DismissOffset(action, c.cfg.ViewportWidth),
	}

	if c.recorder == nil {
		return Outcome{}, fmt.Errorf("swipe recorder is not configured")
	}

	record, err := c.recorder.Record(ctx, c.userID, top.ID, action.String())
	if err != nil {
		if c.cfg.FailurePolicy == FailClosed {
			c.resetOffset()
			c.state = StateIdle
			return Outcome{}, err
		}
		c.logger.Warn("swipe not recorded, advancing deck",
			zap.String("swiper_id", c.userID),
			zap.String("target_id", top.ID),
			zap.String("action", action.String()),
			zap.Error(err),
		)
		outcome.RecordErr = err
	} else {
		outcome.Record = record
	}

	c.cursor++
	c.resetOffset()
	c.settle()
	return outcome, nil
}

func (c *Controller) settle() {
	if c.cursor >= len(c.queue) {
		c.state = StateExhausted
		return
	}
	c.state = StateIdle
}

func (c *Controller) resetOffset() {
	c.offsetX = 0
	c.offsetY = 0
}
