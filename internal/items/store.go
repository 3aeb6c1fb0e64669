// Package items reads the items table, the single data set the pipeline serves.
package items

import (
	"context"
	"fmt"

	"github.com/koustreak/tierline/internal/database"
)

// Table is the relation the data-access tier reads from.
const Table = "items"

// Item is one row of the items table.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store lists items through a pooled database.DB.
type Store struct {
	db    database.DB
	query string
}

// NewStore prepares the list query for the given dialect.
func NewStore(db database.DB, dialect database.Dialect) (*Store, error) {
	q, err := database.Select(Table, dialect).
		Columns("id", "name").
		OrderBy("id", database.Asc).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building items query: %w", err)
	}
	return &Store{db: db, query: q}, nil
}

// List returns every item ordered by id ascending. The result is never nil.
// The pooled connection is released before List returns, on every path.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, err
	}
	return database.ScanAll(rows, scanItem)
}

// Ready reports whether the items table exists. Used as a startup check.
func (s *Store) Ready(ctx context.Context) (bool, error) {
	return s.db.TableExists(ctx, Table)
}

func scanItem(r database.Rows) (Item, error) {
	var it Item
	err := r.Scan(&it.ID, &it.Name)
	return it, err
}
