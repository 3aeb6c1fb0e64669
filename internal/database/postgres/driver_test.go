package postgres

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/errs"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_Query(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := mock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "alpha").
		AddRow(int64(2), "beta")
	mock.ExpectQuery(`SELECT "id", "name" FROM "items"`).WillReturnRows(rows)

	d := NewWithPool(mock)
	res, err := d.Query(context.Background(), `SELECT "id", "name" FROM "items" ORDER BY "id" ASC`)
	require.NoError(t, err)

	type item struct {
		id   int64
		name string
	}
	got, err := database.ScanAll(res, func(r database.Rows) (item, error) {
		var it item
		err := r.Scan(&it.id, &it.name)
		return it, err
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "alpha"}, {2, "beta"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FORM items")).WillReturnError(&pgconn.PgError{
		Code:    "42601",
		Message: `syntax error at or near "FORM"`,
	})

	d := NewWithPool(mock)
	_, err = d.Query(context.Background(), "SELECT id FORM items")
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.Contains(t, err.Error(), "syntax error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_ScanFailureIsQueryFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM "items"`).WillReturnRows(
		mock.NewRows([]string{"id", "name"}).AddRow(int64(1), "alpha"),
	)

	d := NewWithPool(mock)
	rows, err := d.Query(context.Background(), `SELECT "id", "name" FROM "items"`)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var id int64
	err = rows.Scan(&id)
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.False(t, errs.IsConnectionFailed(err))
}

func TestDriver_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	d := NewWithPool(mock)
	assert.NoError(t, d.Ping(context.Background()))

	err = d.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_TableExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("items").
		WillReturnRows(mock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("information_schema.tables").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	d := NewWithPool(mock)

	ok, err := d.TableExists(context.Background(), "items")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.TableExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_Close(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectClose()
	NewWithPool(mock).Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"canceled", context.Canceled, errs.ErrKindTimeout},
		{"no rows", pgx.ErrNoRows, errs.ErrKindNotFound},
		{"connection failure", &pgconn.PgError{Code: "08006"}, errs.ErrKindConnectionFailed},
		{"too many connections", &pgconn.PgError{Code: "53300"}, errs.ErrKindConnectionFailed},
		{"bad password", &pgconn.PgError{Code: "28P01"}, errs.ErrKindPermissionDenied},
		{"unknown database", &pgconn.PgError{Code: "3D000"}, errs.ErrKindConnectionFailed},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, errs.ErrKindNotFound},
		{"syntax error", &pgconn.PgError{Code: "42601"}, errs.ErrKindQueryFailed},
		{"network", errors.New("read: connection reset by peer"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, mapError(nil, "op"))
}

func TestBuildDSN(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.Host = "db.internal"
	cfg.User = "app"
	cfg.Password = "p@ss word"
	cfg.Database = "inventory"

	dsn := buildDSN(cfg)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5432", u.Host)
	assert.Equal(t, "/inventory", u.Path)
	assert.Equal(t, "app", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	cfg.SSLMode = "require"
	cfg.Port = 6543
	u, err = url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestNew_IsLazy(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1 // nothing listens here
	cfg.User = "nobody"
	cfg.Database = "nothing"

	d, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer d.Close()
}
