// Package files persists file metadata. The file bytes live in external
// object storage under models.File.StorageKey.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/models"
)

const fileColumns = "id, filename, mime_type, size_kb, storage_key, owner_id, folder_id, share_token, share_expiry, uploaded_at"

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a metadata row for an already-uploaded object. A duplicate
// storage key means the upload was confirmed twice and yields ErrValidation.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (filename, mime_type, size_kb, storage_key, owner_id, folder_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns

	created := &models.File{}
	err := r.db.QueryRowContext(ctx, query,
		file.Filename, file.MimeType, file.SizeKB, file.StorageKey, file.OwnerID, file.FolderID).
		Scan(scanDest(created)...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: upload already confirmed", common.ErrValidation)
		}
		return nil, dbx.WrapUpstream(err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(scanDest(file)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrFileNotFound
		}
		return nil, dbx.WrapUpstream(err)
	}

	return file, nil
}

// GetByShareToken looks a file up by exact share-token match. Absence maps
// to ErrShareNotFound, not ErrFileNotFound: the caller on this path is
// anonymous and must not learn anything else.
func (r *PostgresRepository) GetByShareToken(ctx context.Context, token string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE share_token = $1`

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(scanDest(file)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrShareNotFound
		}
		return nil, dbx.WrapUpstream(err)
	}

	return file, nil
}

// List returns one page of ownerID's files, newest upload first, plus the
// total row count for the same filter.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, filter ListFilter) ([]*models.File, int64, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.FilterFolder {
		args = append(args, filter.FolderID)
		where = append(where, fmt.Sprintf("folder_id IS NOT DISTINCT FROM $%d", len(args)))
	}
	if filter.MimeType != "" {
		args = append(args, filter.MimeType)
		where = append(where, fmt.Sprintf("mime_type = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM files WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dbx.WrapUpstream(err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM files WHERE %s ORDER BY uploaded_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		fileColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, dbx.WrapUpstream(err)
	}
	defer rows.Close()

	result, err := scanFiles(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListByFolder returns every file of ownerID directly inside folderID.
func (r *PostgresRepository) ListByFolder(ctx context.Context, ownerID, folderID int64) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE owner_id = $1 AND folder_id = $2
		ORDER BY uploaded_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID, folderID)
	if err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, filename string) (*models.File, error) {
	query := `UPDATE files SET filename = $2 WHERE id = $1 RETURNING ` + fileColumns

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, filename).Scan(scanDest(file)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrFileNotFound
		}
		return nil, dbx.WrapUpstream(err)
	}

	return file, nil
}

func (r *PostgresRepository) UpdateFolder(ctx context.Context, id int64, folderID *int64) (*models.File, error) {
	query := `UPDATE files SET folder_id = $2 WHERE id = $1 RETURNING ` + fileColumns

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, folderID).Scan(scanDest(file)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrFileNotFound
		}
		return nil, dbx.WrapUpstream(err)
	}

	return file, nil
}

// SetShare writes token and expiry in one statement, overwriting any
// previous grant. The token column's unique constraint guards collisions.
func (r *PostgresRepository) SetShare(ctx context.Context, id int64, token string, expiry time.Time) (*models.File, error) {
	query := `UPDATE files SET share_token = $2, share_expiry = $3 WHERE id = $1 RETURNING ` + fileColumns

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id, token, expiry).Scan(scanDest(file)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrFileNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: share token collision", common.ErrInternal)
		}
		return nil, dbx.WrapUpstream(err)
	}

	return file, nil
}

// ClearShare nulls both share columns. Clearing an already-unshared file is
// not an error.
func (r *PostgresRepository) ClearShare(ctx context.Context, id int64) error {
	query := `UPDATE files SET share_token = NULL, share_expiry = NULL WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	if n == 0 {
		return common.ErrFileNotFound
	}
	return nil
}

// Delete removes the metadata row. Exactly one row must be affected; zero
// means the file is already gone (e.g. a concurrent delete won the race).
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM files WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbx.WrapUpstream(err)
	}
	if n == 0 {
		return common.ErrFileNotFound
	}
	return nil
}

func (r *PostgresRepository) ListKeysBySubtree(ctx context.Context, rootID int64) ([]string, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT storage_key FROM files WHERE folder_id IN (SELECT id FROM subtree)
	`

	rows, err := r.db.QueryContext(ctx, query, rootID)
	if err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, dbx.WrapUpstream(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	return keys, nil
}

func (r *PostgresRepository) DeleteBySubtree(ctx context.Context, rootID int64) error {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		DELETE FROM files WHERE folder_id IN (SELECT id FROM subtree)
	`

	if _, err := r.db.ExecContext(ctx, query, rootID); err != nil {
		return dbx.WrapUpstream(err)
	}
	return nil
}

func scanDest(f *models.File) []any {
	return []any{
		&f.ID, &f.Filename, &f.MimeType, &f.SizeKB, &f.StorageKey,
		&f.OwnerID, &f.FolderID, &f.ShareToken, &f.ShareExpiry, &f.UploadedAt,
	}
}

func scanFiles(rows *sql.Rows) ([]*models.File, error) {
	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(scanDest(&item)...); err != nil {
			return nil, dbx.WrapUpstream(err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapUpstream(err)
	}
	return result, nil
}
