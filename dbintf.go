package sqlshape

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// DB is the read-only surface the cursor-cache driver needs; *sql.DB
// satisfies it. Driver() selects the catalog query for the backend.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Driver() driver.Driver
}

var _ DB = &sql.DB{}
