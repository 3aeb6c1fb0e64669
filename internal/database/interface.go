package database

import "context"

// DB is the contract the data-access tier holds on the store.
// Layers above this package talk only to this interface;
// they never import the postgres or mysql packages directly.
//
// Implementations own a bounded connection pool and are safe for
// concurrent use. Every call acquires a pooled connection for its
// duration and blocks while the pool is exhausted, until ctx is done.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()

	// Query executes a SQL statement that returns multiple rows.
	// The connection is held until the returned Rows is closed.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// TableExists reports whether a table with the given name exists
	// in the connection's current schema.
	TableExists(ctx context.Context, table string) (bool, error)
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Close releases resources held by the result set and returns
	// the connection to the pool.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}
