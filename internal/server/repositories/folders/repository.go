package folders

import (
	"context"

	"github.com/filecove/filecove/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	GetByID(ctx context.Context, id int64) (*models.Folder, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Folder, error)
	ListChildren(ctx context.Context, ownerID, parentID int64) ([]*models.Folder, error)
	ExistsByNameAndParent(ctx context.Context, ownerID int64, name string, parentID *int64) (bool, error)
	// DeleteSubtree removes the folder and every descendant folder. It must
	// run inside the same transaction that removes the subtree's files.
	DeleteSubtree(ctx context.Context, rootID int64) error
}
