package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/laavis/dev-link/internal/domain/entity"
	repo "github.com/laavis/dev-link/internal/domain/repository"
	"github.com/laavis/dev-link/pkg/helpers"
	"github.com/laavis/dev-link/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
)

// AuthService composes the credential store, password hasher and token
// issuer into the register/login flow.
type AuthService struct {
	Users       repo.UserRepository
	Profiles    repo.ProfileRepository
	JWT         *helpers.JWTManager
	GCS         *storage.Client
	GCSBucket   string
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
}

func NewAuthService(users repo.UserRepository, profiles repo.ProfileRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:       users,
		Profiles:    profiles,
		JWT:         jwt,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Pub:         pub,
		Logger:      logger,
		MailEnabled: mailEnabled,
	}
}

// Register creates a new account. The email must not already exist
// (case-sensitive exact match); the avatar is derived from the email and the
// password is stored as a bcrypt hash. A welcome email is queued best-effort.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Avatar:   helpers.GravatarURL(email),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if s.Pub != nil && s.MailEnabled {
		if pErr := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Email, u.Name)); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("user_id", u.ID.Hex()).Warn("welcome email enqueue failed")
		}
	}
	return u, nil
}

// Login validates credentials and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, *entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, nil, ErrUserNotFound
		}
		return "", time.Time{}, nil, err
	}
	ok, err := helpers.CompareHashAndPassword(u.Password, password)
	if err != nil {
		// malformed stored hash; unexpected, surfaced as internal
		return "", time.Time{}, nil, err
	}
	if !ok {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Issue(u.ID.Hex(), u.Name, u.Avatar)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("token issue failed")
		}
		return "", time.Time{}, nil, err
	}
	return token, exp, u, nil
}

// UploadAvatar stores a custom avatar image in GCS and points the user at it.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.UpdateAvatar(ctx, userID, url)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// DeleteAccount removes the user's profile and the user itself.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Profiles.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	err := s.Users.Delete(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
