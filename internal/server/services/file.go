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
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/objectstore"
	"github.com/filecove/filecove/internal/server/repositories/files"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxFilenameLen   = 255
)

// ListQuery carries the listing filters as the client sent them. FilterFolder
// distinguishes "no folder filter" from "root only" (FolderID nil with
// FilterFolder set).
type ListQuery struct {
	FilterFolder bool
	FolderID     *int64
	MimeType     string
	Page         int
	Limit        int
}

// FilePage is one page of a listing plus pagination metadata.
type FilePage struct {
	Files []*models.File
	Total int64
	Page  int
	Limit int
}

// FileService orchestrates the file metadata lifecycle around the external
// object store: ticket issuance, upload confirmation, listing, rename, move,
// and delete. Mutations are gated on ownership of the file and, where a
// folder is involved, of the folder.
type FileService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	store          objectstore.Store
	uploadURLTTL   time.Duration
	downloadURLTTL time.Duration
}

// NewFileService constructs a FileService using repositories, the object
// store, and server config.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store, cfg *config.Config) *FileService {
	return &FileService{
		db:             db,
		repomanager:    m,
		store:          store,
		uploadURLTTL:   cfg.UploadURLTTL,
		downloadURLTTL: cfg.DownloadURLTTL,
	}
}

// storageKeyFor derives a collision-resistant key namespaced under the owner,
// so no ticket can ever authorize a write into another user's space.
func storageKeyFor(ownerID int64, filename string) string {
	return fmt.Sprintf("users/%d/uploads/%d_%v_%s", ownerID, timeNow().Unix(), uuid.New(), sanitizeFilename(filename))
}

// sanitizeFilename strips anything outside a conservative character set so
// the name can be embedded in an object key.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// RequestUpload validates folder ownership, derives a storage key, and
// returns a single-PUT upload ticket. No metadata row exists yet; trust is
// established later by ConfirmUpload.
func (s *FileService) RequestUpload(ctx context.Context, userID int64, folderID *int64, filename, mimeType string) (*models.UploadTicket, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}
	if _, err := assertFolderOwnership(ctx, s.repomanager, s.db, folderID, userID); err != nil {
		return nil, err
	}

	key := storageKeyFor(userID, filename)
	url, err := s.store.PresignPut(ctx, key, mimeType, s.uploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &models.UploadTicket{StorageKey: key, UploadURL: url}, nil
}

// ConfirmUpload records the metadata row for a key the client claims to have
// uploaded. The key must lie in the caller's upload namespace and the object must
// actually exist, otherwise no row is written.
func (s *FileService) ConfirmUpload(ctx context.Context, userID int64, storageKey, filename, mimeType string, sizeKB int64, folderID *int64) (*models.File, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(storageKey, fmt.Sprintf("users/%d/uploads/", userID)) {
		return nil, common.ErrAccessDenied
	}
	if _, err := assertFolderOwnership(ctx, s.repomanager, s.db, folderID, userID); err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrObjectMissing
	}

	return s.repomanager.Files(s.db).Create(ctx, &models.File{
		Filename:   filename,
		MimeType:   mimeType,
		SizeKB:     sizeKB,
		StorageKey: storageKey,
		OwnerID:    userID,
		FolderID:   folderID,
	})
}

// List returns one page of the caller's files, newest upload first. Page and
// limit are clamped rather than rejected.
func (s *FileService) List(ctx context.Context, userID int64, q ListQuery) (*FilePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	list, total, err := s.repomanager.Files(s.db).List(ctx, userID, files.ListFilter{
		FilterFolder: q.FilterFolder,
		FolderID:     q.FolderID,
		MimeType:     q.MimeType,
		Offset:       (page - 1) * limit,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	return &FilePage{Files: list, Total: total, Page: page, Limit: limit}, nil
}

// Get returns a single file, owner only.
func (s *FileService) Get(ctx context.Context, userID, fileID int64) (*models.File, error) {
	return assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID)
}

// DownloadURL mints a short-lived download URL for the caller's own file.
func (s *FileService) DownloadURL(ctx context.Context, userID, fileID int64) (string, error) {
	file, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, file.StorageKey, s.downloadURLTTL)
}

// Rename changes the display name; the storage key never changes.
func (s *FileService) Rename(ctx context.Context, userID, fileID int64, newName string) (*models.File, error) {
	if err := validateFilename(newName); err != nil {
		return nil, err
	}
	if _, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).UpdateName(ctx, fileID, newName)
}

// Move re-parents the file. A nil target un-files it; a non-nil target must
// be the caller's own folder.
func (s *FileService) Move(ctx context.Context, userID, fileID int64, targetFolderID *int64) (*models.File, error) {
	if _, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID); err != nil {
		return nil, err
	}
	if _, err := assertFolderOwnership(ctx, s.repomanager, s.db, targetFolderID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).UpdateFolder(ctx, fileID, targetFolderID)
}

// Delete removes the backing object first, then the metadata row. If the row
// delete then fails the object is already gone; that is surfaced as a
// retryable upstream error, and the retry succeeds because the store treats
// deleting an absent object as success. A concurrent delete that loses the
// race gets ErrFileNotFound.
func (s *FileService) Delete(ctx context.Context, userID, fileID int64) error {
	file, err := assertFileOwnership(ctx, s.repomanager, s.db, fileID, userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		return err
	}

	if err := s.repomanager.Files(s.db).Delete(ctx, fileID); err != nil {
		if errors.Is(err, common.ErrFileNotFound) {
			return err
		}
		return fmt.Errorf("%w: file record not removed, retry delete: %v", common.ErrUpstream, err)
	}
	return nil
}

func validateFilename(name string) error {
	if name == "" || len(name) > maxFilenameLen {
		return fmt.Errorf("%w: filename must be 1-%d characters", common.ErrValidation, maxFilenameLen)
	}
	return nil
}
