package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

type Publisher interface {
	Publish(ctx context.Context, userID string, payload []byte) error
}

// Emitter publishes engine events on a best-effort basis. A nil Emitter or one
// without a publisher drops everything; publish failures are only logged.
type Emitter struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewEmitter(publisher Publisher, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Emitter{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

func (e *Emitter) CandidatesLoaded(ctx context.Context, userID string, ids []string) {
	e.emit(ctx, userID, model.EventCandidatesLoaded, map[string]any{
		"count": len(ids),
		"ids":   nonNil(ids),
	})
}

func (e *Emitter) SwipeCommitted(ctx context.Context, record model.SwipeRecord) {
	e.emit(ctx, record.SwiperID, model.EventSwipeCommitted, map[string]any{
		"target_id": record.TargetID,
		"action":    record.Action.String(),
	})
}

func (e *Emitter) MatchesLoaded(ctx context.Context, userID string, ids []string) {
	e.emit(ctx, userID, model.EventMatchesLoaded, map[string]any{
		"count": len(ids),
		"ids":   nonNil(ids),
	})
}

func (e *Emitter) Error(ctx context.Context, userID, kind string, cause error) {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	e.emit(ctx, userID, model.EventError, map[string]any{
		"error_kind": kind,
		"message":    message,
	})
}

func (e *Emitter) emit(ctx context.Context, userID, kind string, payload map[string]any) {
	if e == nil || e.publisher == nil {
		return
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return
	}

	event := model.Event{
		ID:      e.newID(),
		Kind:    kind,
		UserID:  userID,
		At:      e.now().UTC(),
		Payload: payload,
	}

	if err := e.publish(ctx, event); err != nil {
		e.logger.Warn("publish engine event failed",
			zap.String("kind", kind),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func (e *Emitter) publish(ctx context.Context, event model.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := e.publisher.Publish(ctx, event.UserID, raw); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
