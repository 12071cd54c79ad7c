package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/laavis/dev-link/internal/domain/entity"
	repo "github.com/laavis/dev-link/internal/domain/repository"
)

// ProfileService owns profile lookups and the prepend/remove-by-id handling
// of experience and education entries.
type ProfileService struct {
	Profiles repo.ProfileRepository
	Logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Logger: logger}
}

func (s *ProfileService) Current(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.Profiles.GetByUserID(ctx, userID)
}

func (s *ProfileService) ByHandle(ctx context.Context, handle string) (*entity.Profile, error) {
	return s.Profiles.GetByHandle(ctx, handle)
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	return s.Profiles.GetByUserID(ctx, userID)
}

func (s *ProfileService) All(ctx context.Context) ([]entity.Profile, error) {
	return s.Profiles.GetAll(ctx)
}

// Upsert creates the profile on first call and replaces its fields after.
// A handle owned by another profile fails with repository.ErrHandleTaken.
func (s *ProfileService) Upsert(ctx context.Context, userID string, fields repo.ProfileFields) (*entity.Profile, error) {
	p, err := s.Profiles.Upsert(ctx, userID, fields)
	if err == nil && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "handle": p.Handle}).Debug("profile upserted")
	}
	return p, err
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp entity.Experience) (*entity.Profile, error) {
	return s.Profiles.AddExperience(ctx, userID, exp)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return s.Profiles.RemoveExperience(ctx, userID, entryID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, edu entity.Education) (*entity.Profile, error) {
	return s.Profiles.AddEducation(ctx, userID, edu)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*entity.Profile, error) {
	return s.Profiles.RemoveEducation(ctx, userID, entryID)
}
