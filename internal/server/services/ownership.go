package services

import (
	"context"
	"time"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/models"
	"github.com/filecove/filecove/internal/server/repositories/repomanager"
)

// timeNow is a seam for tests that need to move the clock.
var timeNow = time.Now

// assertFileOwnership loads the file and verifies userID owns it. Every
// file-mutating operation goes through here before touching anything.
func assertFileOwnership(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, fileID, userID int64) (*models.File, error) {
	file, err := m.Files(db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != userID {
		return nil, common.ErrAccessDenied
	}
	return file, nil
}

// assertFolderOwnership verifies userID owns folderID. A nil folderID is the
// root and is always permitted; the returned folder is nil in that case.
func assertFolderOwnership(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, folderID *int64, userID int64) (*models.Folder, error) {
	if folderID == nil {
		return nil, nil
	}
	folder, err := m.Folders(db).GetByID(ctx, *folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != userID {
		return nil, common.ErrAccessDenied
	}
	return folder, nil
}
