// Package memory holds process-local implementations of the profile store and
// swipe ledger. They back the API in "memory" storage mode and the tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

type ProfileStore struct {
	mu       sync.RWMutex
	order    []string
	profiles map[string]model.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]model.Profile)}
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return model.Profile{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, model.ErrProfileNotFound
	}
	return profile.Normalize(), nil
}

// Upsert merges like the Postgres repo: blank or nil fields keep stored values.
func (s *ProfileStore) Upsert(ctx context.Context, profile model.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(profile.ID)
	if id == "" {
		return fmt.Errorf("invalid profile id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.profiles[id]
	if !exists {
		s.order = append(s.order, id)
		stored = model.Profile{ID: id}
	}
	if v := strings.TrimSpace(profile.DisplayName); v != "" {
		stored.DisplayName = v
	}
	if v := strings.TrimSpace(profile.Bio); v != "" {
		stored.Bio = v
	}
	if profile.PhotoURL != nil && strings.TrimSpace(*profile.PhotoURL) != "" {
		photo := strings.TrimSpace(*profile.PhotoURL)
		stored.PhotoURL = &photo
	}
	if profile.Age != nil && *profile.Age > 0 {
		age := *profile.Age
		stored.Age = &age
	}
	s.profiles[id] = stored
	return nil
}

// Delete is not part of the engine contract; tests use it to model a profile
// that disappeared after matching.
func (s *ProfileStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return
	}
	delete(s.profiles, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *ProfileStore) ListAllExcept(ctx context.Context, userID string) ([]model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Profile, 0, len(s.order))
	for _, id := range s.order {
		if id == userID {
			continue
		}
		items = append(items, s.profiles[id].Normalize())
	}
	return items, nil
}
