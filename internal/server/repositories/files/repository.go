package files

import (
	"context"
	"time"

	"github.com/filecove/filecove/internal/server/models"
)

// ListFilter narrows a file listing. FilterFolder distinguishes "no folder
// filter" from "root only" (FolderID nil with FilterFolder set).
type ListFilter struct {
	FilterFolder bool
	FolderID     *int64
	MimeType     string
	Offset       int
	Limit        int
}

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
	GetByShareToken(ctx context.Context, token string) (*models.File, error)
	List(ctx context.Context, ownerID int64, filter ListFilter) ([]*models.File, int64, error)
	ListByFolder(ctx context.Context, ownerID, folderID int64) ([]*models.File, error)
	UpdateName(ctx context.Context, id int64, filename string) (*models.File, error)
	UpdateFolder(ctx context.Context, id int64, folderID *int64) (*models.File, error)
	SetShare(ctx context.Context, id int64, token string, expiry time.Time) (*models.File, error)
	ClearShare(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	// ListKeysBySubtree returns the storage keys of every file contained in
	// the folder subtree rooted at rootID.
	ListKeysBySubtree(ctx context.Context, rootID int64) ([]string, error)
	// DeleteBySubtree removes every file contained in the folder subtree
	// rooted at rootID. It must run inside the same transaction that removes
	// the folders themselves.
	DeleteBySubtree(ctx context.Context, rootID int64) error
}
