package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/objectstore"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
)

// shareTokenBytes gives 128 bits of entropy per token.
const shareTokenBytes = 16

// SharedFile is what an anonymous caller gets back for a valid token: the
// file metadata plus a freshly minted, separately time-bound download URL.
// The underlying object never gets a stable public address.
type SharedFile struct {
	File        *models.File
	DownloadURL string
}

// ShareService mints, validates, and revokes time-bound public access grants.
// A file carries at most one active token; re-generating overwrites the
// previous one, invalidating it immediately. Token values are never reused.
type ShareService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	store          objectstore.Store
	baseURL        string
	downloadURLTTL time.Duration
}

// NewShareService constructs a ShareService using repositories, the object
// store, and server config.
func NewShareService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store, cfg *config.Config) *ShareService {
	return &ShareService{
		db:             db,
		repomanager:    m,
		store:          store,
		baseURL:        cfg.BaseURL,
		downloadURLTTL: cfg.DownloadURLTTL,
	}
}

// Generate mints a share token for the caller's file, valid for ttl.
// Concurrent generates race safely: last write wins and only the stored
// token remains valid.
func (s *ShareService) Generate(ctx context.Context, userID, fileID int64, ttl time.Duration) (*models.File, string, error) {
	if ttl <= 0 {
		return nil, "", fmt.Errorf("%w: expiry must be in the future", common.ErrValidation)
	}
	if _, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID); err != nil {
		return nil, "", err
	}

	token, err := common.MakeRandHexString(shareTokenBytes)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	file, err := s.repomanager.Files(s.db).SetShare(ctx, fileID, token, timeNow().Add(ttl))
	if err != nil {
		return nil, "", err
	}
	return file, s.shareURL(token), nil
}

// Access resolves a share token without authentication. Expiry is checked at
// read time; an expired token stays stored but behaves as gone except for the
// distinct ShareExpired result.
func (s *ShareService) Access(ctx context.Context, token string) (*SharedFile, error) {
	file, err := s.repomanager.Files(s.db).GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !file.Shared() {
		return nil, common.ErrShareNotFound
	}
	if !timeNow().Before(*file.ShareExpiry) {
		return nil, common.ErrShareExpired
	}

	url, err := s.store.PresignGet(ctx, file.StorageKey, s.downloadURLTTL)
	if err != nil {
		return nil, err
	}
	return &SharedFile{File: file, DownloadURL: url}, nil
}

// Revoke clears the grant unconditionally. Revoking an unshared file is a
// no-op success.
func (s *ShareService) Revoke(ctx context.Context, userID, fileID int64) error {
	if _, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID); err != nil {
		return err
	}
	return s.repomanager.Files(s.db).ClearShare(ctx, fileID)
}

func (s *ShareService) shareURL(token string) string {
	return fmt.Sprintf("%s/api/v1/share/%s", s.baseURL, token)
}
