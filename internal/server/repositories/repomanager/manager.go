package repomanager

import (
	"context"
	"database/sql"

	"github.com/filecove/filecove/internal/dbx"
	"github.com/filecove/filecove/internal/server/repositories/files"
	"github.com/filecove/filecove/internal/server/repositories/folders"
	"github.com/filecove/filecove/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
}
