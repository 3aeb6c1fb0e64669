// Package databasetest provides an in-memory database.DB for tests of the
// layers above the drivers.
package databasetest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/koustreak/tierline/internal/database"
)

// DB is a scripted database.DB. Every Query returns a fresh Rows over
// Result, or QueryErr when set. It counts open result sets so tests can
// assert that connections were released.
type DB struct {
	Result   [][]any
	QueryErr error
	PingErr  error
	Tables   map[string]bool

	mu      sync.Mutex
	queries []string
	open    int
	closed  bool

	// IterErr is returned from Rows.Err after the last row.
	IterErr error
}

var _ database.DB = (*DB)(nil)

func (d *DB) Ping(_ context.Context) error { return d.PingErr }

func (d *DB) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *DB) Query(ctx context.Context, sql string, _ ...any) (database.Rows, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, sql)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.QueryErr != nil {
		return nil, d.QueryErr
	}
	d.open++
	return &Rows{db: d, data: d.Result, iterErr: d.IterErr, pos: -1}, nil
}

func (d *DB) TableExists(_ context.Context, table string) (bool, error) {
	if d.QueryErr != nil {
		return false, d.QueryErr
	}
	return d.Tables[table], nil
}

// Queries returns the SQL text of every Query call so far.
func (d *DB) Queries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

// OpenRows reports how many result sets have not been closed.
func (d *DB) OpenRows() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Closed reports whether Close was called.
func (d *DB) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Rows iterates a fixed slice of value tuples.
type Rows struct {
	db      *DB
	data    [][]any
	iterErr error
	pos     int
	closed  bool
}

func (r *Rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

// Scan assigns each column to the matching destination pointer using
// reflection, mirroring the driver's conversion for identical types.
func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("scan called without a current row")
	}
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destination arguments, got %d", len(row), len(dest))
	}
	for i, v := range row {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("destination %d is not a non-nil pointer", i)
		}
		if v == nil {
			return fmt.Errorf("cannot scan NULL into destination %d", i)
		}
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("cannot scan %T into %s", v, dv.Elem().Type())
		}
		dv.Elem().Set(sv)
	}
	return nil
}

func (r *Rows) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.db.mu.Lock()
	r.db.open--
	r.db.mu.Unlock()
}

func (r *Rows) Err() error {
	if r.pos+1 >= len(r.data) {
		return r.iterErr
	}
	return nil
}
