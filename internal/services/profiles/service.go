package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/pkg/validate"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

const (
	MinAge            = 18
	MaxAge            = 120
	MaxDisplayNameLen = 64
	MaxBioLen         = 500
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAgeRejected = errors.New("age rejected")
)

type ProfileStore interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
	Upsert(ctx context.Context, profile model.Profile) error
}

type Service struct {
	store  ProfileStore
	logger *zap.Logger
}

type Dependencies struct {
	Store  ProfileStore
	Logger *zap.Logger
}

// PutInput carries a partial profile. Blank or nil fields keep what is
// already stored.
type PutInput struct {
	ID          string
	DisplayName string
	Bio         string
	PhotoURL    *string
	Age         *int
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  deps.Store,
		logger: logger,
	}
}

// Put validates in, merges it into the stored profile and returns the
// merged result.
func (s *Service) Put(ctx context.Context, in PutInput) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := normalizeAndValidateInput(in)
	if err != nil {
		return model.Profile{}, err
	}

	if err := s.store.Upsert(ctx, profile); err != nil {
		return model.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	stored, err := s.store.Get(ctx, profile.ID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("reload profile: %w", err)
	}

	s.logger.Debug("profile saved", zap.String("user_id", profile.ID))
	return stored.Normalize(), nil
}

func (s *Service) Get(ctx context.Context, userID string) (model.Profile, error) {
	userID, err := authsvc.RequireUserID(userID)
	if err != nil {
		return model.Profile{}, err
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	return profile.Normalize(), nil
}

func normalizeAndValidateInput(in PutInput) (model.Profile, error) {
	if !validate.Required(in.ID) {
		return model.Profile{}, fmt.Errorf("id is required: %w", ErrValidation)
	}
	if !validate.MaxRunes(in.DisplayName, MaxDisplayNameLen) {
		return model.Profile{}, fmt.Errorf("display_name is too long: %w", ErrValidation)
	}
	if !validate.MaxRunes(in.Bio, MaxBioLen) {
		return model.Profile{}, fmt.Errorf("bio is too long: %w", ErrValidation)
	}

	out := model.Profile{
		ID:          strings.TrimSpace(in.ID),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Bio:         strings.TrimSpace(in.Bio),
	}

	if in.PhotoURL != nil && validate.Required(*in.PhotoURL) {
		if !validate.HTTPURL(*in.PhotoURL) {
			return model.Profile{}, fmt.Errorf("photo_url must be an http(s) url: %w", ErrValidation)
		}
		photo := strings.TrimSpace(*in.PhotoURL)
		out.PhotoURL = &photo
	}

	if in.Age != nil {
		age := *in.Age
		if age < MinAge {
			return model.Profile{}, ErrAgeRejected
		}
		if age > MaxAge {
			return model.Profile{}, fmt.Errorf("invalid age: %w", ErrValidation)
		}
		out.Age = &age
	}

	return out, nil
}
