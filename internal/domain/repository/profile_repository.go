package repository

import (
	"context"

	"github.com/laavis/dev-link/internal/domain/entity"
)

// ProfileFields is the validated field set applied by Upsert. Empty optional
// fields clear the stored value, matching create-or-replace semantics.
type ProfileFields struct {
	Handle         string
	Company        string
	Website        string
	Location       string
	Status         string
	Bio            string
	GitHubUsername string
	Skills         []string
	Social         entity.Social
}

// ProfileRepository defines the interface for profile store operations.
// Experience and education mutations are atomic array updates against the
// store; entry removal fails with ErrEntryNotFound when the id is absent.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Profile, error)
	GetAll(ctx context.Context) ([]entity.Profile, error)
	Upsert(ctx context.Context, userID string, fields ProfileFields) (*entity.Profile, error)
	AddExperience(ctx context.Context, userID string, exp entity.Experience) (*entity.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID string) (*entity.Profile, error)
	AddEducation(ctx context.Context, userID string, edu entity.Education) (*entity.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID string) (*entity.Profile, error)
	Delete(ctx context.Context, userID string) error
}
