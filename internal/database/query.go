package database

import (
	"strings"

	"github.com/koustreak/tierline/internal/errs"
)

// Dialect controls how the query builder quotes identifiers.
type Dialect int

const (
	// DialectPostgres quotes identifiers with double quotes.
	DialectPostgres Dialect = iota

	// DialectMySQL quotes identifiers with backticks, which works
	// without ANSI_QUOTES in the server's sql_mode.
	DialectMySQL
)

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

// SelectBuilder constructs a read-only SELECT statement.
//
// Usage:
//
//	sql, err := Select("items", DialectPostgres).
//	    Columns("id", "name").
//	    OrderBy("id", Asc).
//	    Build()
type SelectBuilder struct {
	table   string
	dialect Dialect
	columns []string
	orderBy []orderClause
}

type orderClause struct {
	column string
	dir    SortDirection
}

// Select starts a new SelectBuilder for the given table and dialect.
func Select(table string, d Dialect) *SelectBuilder {
	return &SelectBuilder{table: table, dialect: d}
}

// Columns restricts the SELECT to the specified columns.
// If not called, SELECT * is used.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = cols
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Build produces the final SQL string.
// Returns an invalid-input error if the table or any identifier is empty.
func (b *SelectBuilder) Build() (string, error) {
	if b.table == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "select: table name is empty")
	}

	cols := "*"
	if len(b.columns) > 0 {
		quoted := make([]string, len(b.columns))
		for i, c := range b.columns {
			if c == "" {
				return "", errs.New(errs.ErrKindInvalidInput, "select: empty column name")
			}
			quoted[i] = b.quoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(b.quoteIdent(b.table))

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			if o.column == "" {
				return "", errs.New(errs.ErrKindInvalidInput, "select: empty ORDER BY column")
			}
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts[i] = b.quoteIdent(o.column) + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	return sb.String(), nil
}

// quoteIdent wraps a SQL identifier in the dialect's quote character,
// doubling any embedded quote characters.
func (b *SelectBuilder) quoteIdent(name string) string {
	q := `"`
	if b.dialect == DialectMySQL {
		q = "`"
	}
	return q + strings.ReplaceAll(name, q, q+q) + q
}
