// Package repomanager wires repositories to a shared database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/stunningdev/userservice/internal/dbx"
	"github.com/stunningdev/userservice/internal/server/repositories/sessions"
	"github.com/stunningdev/userservice/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so a service can
// use the pooled connection directly or a transaction started via dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
