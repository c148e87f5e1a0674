package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Credential model related methods.
	UpsertCredential(ctx context.Context, upsert *UpsertCredential) (*Credential, error)
	GetCredential(ctx context.Context, find *FindCredential) (*Credential, error)
	DeleteCredential(ctx context.Context, delete *DeleteCredential) error
}
