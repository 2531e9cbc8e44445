// Package db selects a concrete store driver from configuration.
package db

import (
	"context"
	"fmt"

	"github.com/propstack/tenant-chatbot/internal/store"
	"github.com/propstack/tenant-chatbot/internal/store/db/postgres"
	"github.com/propstack/tenant-chatbot/internal/store/db/sqlite"
)

// NewDriver opens the database backend named by driver. Supported values
// are "sqlite" (dsn is a file path) and "postgres" (dsn is a lib/pq DSN).
func NewDriver(ctx context.Context, driver, dsn string) (store.Driver, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn)
	case "postgres":
		return postgres.Open(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
