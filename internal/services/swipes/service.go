package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Ledger persists one decision per (swiper, target) pair. Upsert must
// overwrite an existing record atomically and assign CreatedAt itself.
type Ledger interface {
	Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction) (model.SwipeRecord, error)
}

type Metrics interface {
	SwipeRecorded(action string)
	SwipeRecordFailed()
}

type EventSink interface {
	SwipeCommitted(ctx context.Context, record model.SwipeRecord)
	Error(ctx context.Context, userID, kind string, cause error)
}

// RecordError reports that a validated swipe could not be persisted.
type RecordError struct {
	SwiperID string
	TargetID string
	Action   enums.SwipeAction
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record swipe %s -> %s (%s): %v", e.SwiperID, e.TargetID, e.Action, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func IsRecordError(err error) (*RecordError, bool) {
	var re *RecordError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

type Dependencies struct {
	Ledger  Ledger
	Metrics Metrics
	Events  EventSink
	Logger  *zap.Logger
}

type Service struct {
	ledger  Ledger
	metrics Metrics
	events  EventSink
	logger  *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		ledger:  deps.Ledger,
		metrics: deps.Metrics,
		events:  deps.Events,
		logger:  logger,
	}
}

// Record stores swiperID's decision about targetID. Repeating a swipe is
// idempotent and a later decision replaces the earlier one.
func (s *Service) Record(ctx context.Context, swiperID, targetID, action string) (model.SwipeRecord, error) {
	swiperID, err := authsvc.RequireUserID(swiperID)
	if err != nil {
		return model.SwipeRecord{}, err
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" || swiperID == targetID {
		return model.SwipeRecord{}, ErrValidation
	}

	parsed, err := enums.ParseSwipeAction(action)
	if err != nil {
		return model.SwipeRecord{}, ErrUnsupportedAction
	}

	if s.ledger == nil {
		return model.SwipeRecord{}, s.fail(ctx, swiperID, targetID, parsed, fmt.Errorf("swipe ledger is not configured"))
	}

	record, err := s.ledger.Upsert(ctx, swiperID, targetID, parsed)
	if err != nil {
		return model.SwipeRecord{}, s.fail(ctx, swiperID, targetID, parsed, err)
	}

	if s.metrics != nil {
		s.metrics.SwipeRecorded(parsed.String())
	}
	if s.events != nil {
		s.events.SwipeCommitted(ctx, record)
	}
	return record, nil
}

func (s *Service) fail(ctx context.Context, swiperID, targetID string, action enums.SwipeAction, cause error) error {
	err := &RecordError{
		SwiperID: swiperID,
		TargetID: targetID,
		Action:   action,
		Err:      cause,
	}
	s.logger.Warn("swipe record failed",
		zap.String("swiper_id", swiperID),
		zap.String("target_id", targetID),
		zap.String("action", action.String()),
		zap.Error(cause),
	)
	if s.metrics != nil {
		s.metrics.SwipeRecordFailed()
	}
	if s.events != nil {
		s.events.Error(ctx, swiperID, model.ErrorKindSwipeRecord, err)
	}
	return err
}
