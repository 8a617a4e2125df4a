// Package repomanager wires repository constructors to a concrete database
// and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/chanvault/chanvault/internal/dbx"
	"github.com/chanvault/chanvault/internal/server/repositories/contents"
	"github.com/chanvault/chanvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Contents(db dbx.DBTX) contents.Repository
}
