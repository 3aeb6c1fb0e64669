package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/database/databasetest"
	"github.com/koustreak/tierline/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	id   int64
	name string
}

func scanPair(r database.Rows) (pair, error) {
	var p pair
	err := r.Scan(&p.id, &p.name)
	return p, err
}

func TestScanAll_PreservesOrderAndCloses(t *testing.T) {
	db := &databasetest.DB{Result: [][]any{
		{int64(1), "alpha"},
		{int64(2), "beta"},
		{int64(3), "gamma"},
	}}

	rows, err := db.Query(context.Background(), "SELECT")
	require.NoError(t, err)

	got, err := database.ScanAll(rows, scanPair)
	require.NoError(t, err)
	assert.Equal(t, []pair{{1, "alpha"}, {2, "beta"}, {3, "gamma"}}, got)
	assert.Zero(t, db.OpenRows())
}

func TestScanAll_EmptyIsNonNil(t *testing.T) {
	db := &databasetest.DB{}

	rows, err := db.Query(context.Background(), "SELECT")
	require.NoError(t, err)

	got, err := database.ScanAll(rows, scanPair)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanAll_ScanErrorClosesRows(t *testing.T) {
	db := &databasetest.DB{Result: [][]any{{"not-an-int", "alpha"}}}

	rows, err := db.Query(context.Background(), "SELECT")
	require.NoError(t, err)

	_, err = database.ScanAll(rows, scanPair)
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.Zero(t, db.OpenRows())
}

func TestScanAll_KeepsDriverKind(t *testing.T) {
	db := &databasetest.DB{
		Result:  [][]any{{int64(1), "alpha"}},
		IterErr: errs.Wrap(errs.ErrKindConnectionFailed, "connection reset", errors.New("EOF")),
	}

	rows, err := db.Query(context.Background(), "SELECT")
	require.NoError(t, err)

	_, err = database.ScanAll(rows, scanPair)
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
	assert.Zero(t, db.OpenRows())
}
