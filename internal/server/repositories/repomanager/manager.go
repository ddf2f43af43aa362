package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/datingapp/internal/dbx"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/photos"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can use the same repository code against the pooled connection or
// against an open transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Photos(db dbx.DBTX) photos.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
