package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/config"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/objectstore"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
)

const maxFolderNameLen = 255

// FolderContent is a folder plus its direct children, as returned when the
// client browses into it.
type FolderContent struct {
	Folder     *models.Folder
	Subfolders []*models.Folder
	Files      []*models.File
}

// FolderService manages the per-owner folder forest. Folder deletion cascades
// to every descendant folder and file; the metadata side of the cascade is a
// single transaction.
type FolderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
}

// NewFolderService constructs a FolderService using repositories and the
// object store.
func NewFolderService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store, cfg *config.Config) *FolderService {
	return &FolderService{
		db:          db,
		repomanager: m,
		store:       store,
	}
}

// Create adds a folder under parentID (nil = root). The parent must be the
// caller's own folder, which transitively keeps every chain owner-consistent.
// A duplicate sibling name is a validation error.
func (s *FolderService) Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error) {
	if name == "" || len(name) > maxFolderNameLen {
		return nil, fmt.Errorf("%w: folder name must be 1-%d characters", common.ErrValidation, maxFolderNameLen)
	}
	if _, err := assertFolderOwnership(ctx, s.repomanager, s.db, parentID, userID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Folders(s.db)
	exists, err := repo.ExistsByNameAndParent(ctx, userID, name, parentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: folder %q already exists in this location", common.ErrValidation, name)
	}

	return repo.Create(ctx, &models.Folder{Name: name, OwnerID: userID, ParentID: parentID})
}

// List returns every folder the caller owns.
func (s *FolderService) List(ctx context.Context, userID int64) ([]*models.Folder, error) {
	return s.repomanager.Folders(s.db).ListByOwner(ctx, userID)
}

// Get returns the folder with its direct subfolders and files.
func (s *FolderService) Get(ctx context.Context, userID, folderID int64) (*FolderContent, error) {
	folder, err := assertFolderOwnership(ctx, s.repomanager, s.db, &folderID, userID)
	if err != nil {
		return nil, err
	}

	subfolders, err := s.repomanager.Folders(s.db).ListChildren(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	files, err := s.repomanager.Files(s.db).ListByFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	return &FolderContent{Folder: folder, Subfolders: subfolders, Files: files}, nil
}

// Delete removes the folder and everything under it. Object deletions happen
// first and abort the operation on failure, so metadata rows never outlive
// confirmation that their objects are deletable; the rows themselves go in
// one transaction so the cascade is all-or-nothing.
func (s *FolderService) Delete(ctx context.Context, userID, folderID int64) error {
	if _, err := assertFolderOwnership(ctx, s.repomanager, s.db, &folderID, userID); err != nil {
		return err
	}

	keys, err := s.repomanager.Files(s.db).ListKeysBySubtree(ctx, folderID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).DeleteBySubtree(ctx, folderID); err != nil {
			return err
		}
		return s.repomanager.Folders(tx).DeleteSubtree(ctx, folderID)
	})
}
