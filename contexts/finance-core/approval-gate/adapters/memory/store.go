package memory

import (
	"context"
	"strings"
	"sync"

	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
	domainerrors "solutionshub/contexts/finance-core/approval-gate/domain/errors"
	"solutionshub/contexts/finance-core/approval-gate/ports"
)

type Store struct {
	mu       sync.RWMutex
	profiles map[string]entities.StaffProfile
}

func NewStore(seed []entities.StaffProfile) *Store {
	profiles := make(map[string]entities.StaffProfile, len(seed))
	for _, profile := range seed {
		profiles[profile.UserID] = profile
	}
	return &Store{profiles: profiles}
}

func (s *Store) UpsertProfile(profile entities.StaffProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

func (s *Store) GetStaffProfile(_ context.Context, userID string) (entities.StaffProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[strings.TrimSpace(userID)]
	if !exists {
		return entities.StaffProfile{}, domainerrors.ErrStaffNotFound
	}
	return profile, nil
}

var _ ports.RoleDirectory = (*Store)(nil)
