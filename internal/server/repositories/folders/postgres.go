// Package folders persists the per-owner folder forest.
package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/models"
)

// PostgresRepository implements folder storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a folder. A sibling with the same name under the same
// parent for the same owner violates the unique constraint and yields
// ErrValidation.
func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	query := `
		INSERT INTO folders (name, owner_id, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, parent_id, created_at
	`

	created := &models.Folder{}
	err := r.db.QueryRowContext(ctx, query, folder.Name, folder.OwnerID, folder.ParentID).
		Scan(&created.ID, &created.Name, &created.OwnerID, &created.ParentID, &created.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: folder %q already exists in this location", common.ErrValidation, folder.Name)
		}
		return nil, dbx.WrapUpstream(err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := `
		SELECT id, name, owner_id, parent_id, created_at FROM folders
		WHERE id = $1
	`

	folder := &models.Folder{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&folder.ID, &folder.Name, &folder.OwnerID, &folder.ParentID, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrFolderNotFound
		}
		return nil, dbx.WrapUpstream(err)
	}

	return folder, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Folder, error) {
	query := `
		SELECT id, name, owner_id, parent_id, created_at FROM folders
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListChildren returns the immediate subfolders of parentID owned by ownerID.
func (r *PostgresRepository) ListChildren(ctx context.Context, ownerID, parentID int64) ([]*models.Folder, error) {
	query := `
		SELECT id, name, owner_id, parent_id, created_at FROM folders
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ExistsByNameAndParent reports whether ownerID already has a folder called
// name under parentID (nil = root). Used as a friendly pre-check; the unique
// constraint remains the authority under concurrency.
func (r *PostgresRepository) ExistsByNameAndParent(ctx context.Context, ownerID int64, name string, parentID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM folders
			WHERE owner_id = $1 AND name = $2 AND parent_id IS NOT DISTINCT FROM $3
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, name, parentID).Scan(&exists); err != nil {
		return false, dbx.WrapUpstream(err)
	}
	return exists, nil
}

// DeleteSubtree removes rootID and all folders reachable from it through
// parent_id links in a single statement.
func (r *PostgresRepository) DeleteSubtree(ctx context.Context, rootID int64) error {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		DELETE FROM folders WHERE id IN (SELECT id FROM subtree)
	`

	result, err := r.db.ExecContext(ctx, query, rootID)
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	if n == 0 {
		return common.ErrFolderNotFound
	}
	return nil
}

func scanFolders(rows *sql.Rows) ([]*models.Folder, error) {
	var result []*models.Folder
	for rows.Next() {
		var item models.Folder
		if err := rows.Scan(&item.ID, &item.Name, &item.OwnerID, &item.ParentID, &item.CreatedAt); err != nil {
			return nil, dbx.WrapUpstream(err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	return result, nil
}
