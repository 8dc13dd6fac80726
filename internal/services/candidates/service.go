package candidates

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

type ProfileStore interface {
	ListAllExcept(ctx context.Context, userID string) ([]model.Profile, error)
}

type SwipeReader interface {
	Query(ctx context.Context, filter model.SwipeFilter) ([]model.SwipeRecord, error)
}

type EventSink interface {
	CandidatesLoaded(ctx context.Context, userID string, ids []string)
	Error(ctx context.Context, userID, kind string, cause error)
}

// FetchError reports that the candidate list could not be loaded. The caller
// must treat the queue as empty.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch candidates: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

type Config struct {
	ExcludeSwiped bool
}

type Dependencies struct {
	Profiles ProfileStore
	Swipes   SwipeReader
	Events   EventSink
	Logger   *zap.Logger
}

type Service struct {
	profiles ProfileStore
	swipes   SwipeReader
	events   EventSink
	logger   *zap.Logger
	cfg      Config
}

func NewService(deps Dependencies, cfg Config) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		profiles: deps.Profiles,
		swipes:   deps.Swipes,
		events:   deps.Events,
		logger:   logger,
		cfg:      cfg,
	}
}

// Select returns every profile except the requester's, in store order. With
// ExcludeSwiped set, targets the requester already swiped are dropped.
func (s *Service) Select(ctx context.Context, requestingUserID string) ([]model.Profile, error) {
	userID, err := authsvc.RequireUserID(requestingUserID)
	if err != nil {
		return nil, err
	}
	if s.profiles == nil {
		return nil, s.fail(ctx, userID, fmt.Errorf("profile store is not configured"))
	}

	profiles, err := s.profiles.ListAllExcept(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, userID, err)
	}

	var swiped map[string]struct{}
	if s.cfg.ExcludeSwiped {
		swiped, err = s.swipedTargets(ctx, userID)
		if err != nil {
			return nil, s.fail(ctx, userID, err)
		}
	}

	items := make([]model.Profile, 0, len(profiles))
	ids := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		if profile.ID == userID {
			continue
		}
		if _, ok := swiped[profile.ID]; ok {
			continue
		}
		items = append(items, profile.Normalize())
		ids = append(ids, profile.ID)
	}

	if s.events != nil {
		s.events.CandidatesLoaded(ctx, userID, ids)
	}
	return items, nil
}

func (s *Service) swipedTargets(ctx context.Context, userID string) (map[string]struct{}, error) {
	if s.swipes == nil {
		return nil, fmt.Errorf("swipe ledger is not configured")
	}

	records, err := s.swipes.Query(ctx, model.SwipeFilter{SwiperID: &userID})
	if err != nil {
		return nil, fmt.Errorf("query swiped targets: %w", err)
	}

	out := make(map[string]struct{}, len(records))
	for _, rec := range records {
		out[rec.TargetID] = struct{}{}
	}
	return out, nil
}

func (s *Service) fail(ctx context.Context, userID string, cause error) error {
	err := &FetchError{Err: cause}
	s.logger.Warn("candidate fetch failed", zap.String("user_id", userID), zap.Error(cause))
	if s.events != nil {
		s.events.Error(ctx, userID, model.ErrorKindFetch, err)
	}
	return err
}
