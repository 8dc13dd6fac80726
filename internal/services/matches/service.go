package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

const defaultFanOut = 8

type MatchedAtPolicy string

const (
	// MatchedAtLatest stamps a match with the later of the two likes, the
	// moment the match came into existence.
	MatchedAtLatest MatchedAtPolicy = "latest"
	// MatchedAtOwnLike stamps a match with the requester's own like.
	MatchedAtOwnLike MatchedAtPolicy = "own_like"
)

var ErrUnknownMatchedAtPolicy = errors.New("unknown matched_at policy")

func ParseMatchedAtPolicy(raw string) (MatchedAtPolicy, error) {
	switch MatchedAtPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MatchedAtLatest:
		return MatchedAtLatest, nil
	case MatchedAtOwnLike:
		return MatchedAtOwnLike, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMatchedAtPolicy, raw)
	}
}

type SwipeReader interface {
	Query(ctx context.Context, filter model.SwipeFilter) ([]model.SwipeRecord, error)
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
}

type Metrics interface {
	MatchesFound(count int)
	ObserveMatchQuery(d time.Duration)
}

type EventSink interface {
	MatchesLoaded(ctx context.Context, userID string, ids []string)
	Error(ctx context.Context, userID, kind string, cause error)
}

// QueryError reports that the match list could not be computed. No partial
// result is returned alongside it.
type QueryError struct {
	UserID string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query matches for %s: %v", e.UserID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

type Config struct {
	FanOut    int
	MatchedAt MatchedAtPolicy
}

type Dependencies struct {
	Swipes   SwipeReader
	Profiles ProfileReader
	Metrics  Metrics
	Events   EventSink
	Logger   *zap.Logger
}

type Service struct {
	swipes   SwipeReader
	profiles ProfileReader
	metrics  Metrics
	events   EventSink
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FanOut <= 0 {
		cfg.FanOut = defaultFanOut
	}
	if cfg.MatchedAt == "" {
		cfg.MatchedAt = MatchedAtLatest
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		swipes:   deps.Swipes,
		profiles: deps.Profiles,
		metrics:  deps.Metrics,
		events:   deps.Events,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Find returns every user who liked userID back, in the order userID's likes
// appear in the ledger. Matches whose profile is gone are dropped.
func (s *Service) Find(ctx context.Context, userID string) ([]model.Match, error) {
	userID, err := authsvc.RequireUserID(userID)
	if err != nil {
		return nil, err
	}
	if s.swipes == nil || s.profiles == nil {
		return nil, s.fail(ctx, userID, fmt.Errorf("match dependencies are not configured"))
	}

	started := s.now()
	items, err := s.find(ctx, userID)
	if s.metrics != nil {
		s.metrics.ObserveMatchQuery(s.now().Sub(started))
	}
	if err != nil {
		return nil, s.fail(ctx, userID, err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.User.ID)
	}
	if s.metrics != nil {
		s.metrics.MatchesFound(len(items))
	}
	if s.events != nil {
		s.events.MatchesLoaded(ctx, userID, ids)
	}
	return items, nil
}

func (s *Service) find(ctx context.Context, userID string) ([]model.Match, error) {
	like := enums.SwipeActionLike
	outgoing, err := s.swipes.Query(ctx, model.SwipeFilter{SwiperID: &userID, Action: &like})
	if err != nil {
		return nil, fmt.Errorf("query outgoing likes: %w", err)
	}
	if len(outgoing) == 0 {
		return []model.Match{}, nil
	}

	slots := make([]*model.Match, len(outgoing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOut)

	for i, own := range outgoing {
		i, own := i, own
		g.Go(func() error {
			match, ok, err := s.resolve(gctx, userID, own)
			if err != nil {
				return err
			}
			if ok {
				slots[i] = &match
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]model.Match, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			items = append(items, *slot)
		}
	}
	return items, nil
}

func (s *Service) resolve(ctx context.Context, userID string, own model.SwipeRecord) (model.Match, bool, error) {
	targetID := own.TargetID
	like := enums.SwipeActionLike

	reverse, err := s.swipes.Query(ctx, model.SwipeFilter{SwiperID: &targetID, TargetID: &userID, Action: &like})
	if err != nil {
		return model.Match{}, false, fmt.Errorf("query reverse like from %s: %w", targetID, err)
	}
	if len(reverse) == 0 {
		return model.Match{}, false, nil
	}

	profile, err := s.profiles.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			s.logger.Debug("matched profile is gone", zap.String("user_id", userID), zap.String("target_id", targetID))
			return model.Match{}, false, nil
		}
		return model.Match{}, false, fmt.Errorf("read profile %s: %w", targetID, err)
	}

	return model.Match{
		User:      profile.Normalize(),
		MatchedAt: s.matchedAt(own.CreatedAt, reverse[0].CreatedAt),
	}, true, nil
}

func (s *Service) matchedAt(own, theirs time.Time) time.Time {
	if s.cfg.MatchedAt == MatchedAtOwnLike || own.After(theirs) {
		return own
	}
	return theirs
}

func (s *Service) fail(ctx context.Context, userID string, cause error) error {
	err := &QueryError{UserID: userID, Err: cause}
	s.logger.Warn("match query failed", zap.String("user_id", userID), zap.Error(cause))
	if s.events != nil {
		s.events.Error(ctx, userID, model.ErrorKindMatchQuery, err)
	}
	return err
}
