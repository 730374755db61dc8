// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and the avatar flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/server/auth"
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/objectstore"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
)

// UserService provides account operations:
// - Register: create users
// - Login: verify credentials and mint a session token
// - avatar upload via the same ticket/confirm flow files use
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	store                 objectstore.Store
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
	uploadURLTTL          time.Duration
	downloadURLTTL        time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		store:                 store,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		uploadURLTTL:          cfg.UploadURLTTL,
		downloadURLTTL:        cfg.DownloadURLTTL,
	}
}

// Register creates a new user with the given email and password and mints a
// session token so the client is signed in immediately.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return user, token, nil
}

// Login verifies the credentials and returns a fresh session token. An
// unknown email and a wrong password both yield ErrInvalidCredentials so the
// caller cannot probe for registered accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return user, token, nil
}

// Profile returns the account plus a short-lived avatar download URL when an
// avatar is set.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, string, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	avatarURL := ""
	if user.AvatarKey != nil {
		avatarURL, err = s.store.PresignGet(ctx, *user.AvatarKey, s.downloadURLTTL)
		if err != nil {
			return nil, "", err
		}
	}
	return user, avatarURL, nil
}

// RequestAvatarUpload mints an upload ticket for a new avatar image.
func (s *UserService) RequestAvatarUpload(ctx context.Context, userID int64, mimeType string) (*models.UploadTicket, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: avatar must be an image", common.ErrUnsupportedMediaType)
	}

	key := fmt.Sprintf("users/%d/avatar/%v", userID, uuid.New())
	url, err := s.store.PresignPut(ctx, key, mimeType, s.uploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &models.UploadTicket{StorageKey: key, UploadURL: url}, nil
}

// ConfirmAvatarUpload verifies the uploaded object exists, records the new
// avatar key, and deletes the previous avatar object if there was one.
func (s *UserService) ConfirmAvatarUpload(ctx context.Context, userID int64, storageKey string) (*models.User, error) {
	if !strings.HasPrefix(storageKey, fmt.Sprintf("users/%d/avatar/", userID)) {
		return nil, common.ErrAccessDenied
	}

	exists, err := s.store.Exists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrObjectMissing
	}

	repo := s.repomanager.Users(s.db)
	prev, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := repo.UpdateAvatarKey(ctx, userID, storageKey)
	if err != nil {
		return nil, err
	}

	if prev.AvatarKey != nil && *prev.AvatarKey != storageKey {
		// Best effort: a leftover avatar object is harmless.
		_ = s.store.Delete(ctx, *prev.AvatarKey)
	}
	return user, nil
}
