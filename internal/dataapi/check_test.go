package dataapi

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/database/databasetest"
	"github.com/koustreak/tierline/internal/items"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStore(t *testing.T) {
	tests := []struct {
		name    string
		db      *databasetest.DB
		want    bool
		logPart string
	}{
		{
			name:    "ready",
			db:      &databasetest.DB{Tables: map[string]bool{"items": true}},
			want:    true,
			logPart: "items table present",
		},
		{
			name:    "unreachable",
			db:      &databasetest.DB{PingErr: errors.New("connection refused")},
			want:    false,
			logPart: "store not reachable at startup",
		},
		{
			name:    "missing table",
			db:      &databasetest.DB{},
			want:    false,
			logPart: `does not exist`,
		},
		{
			name:    "other table only",
			db:      &databasetest.DB{Tables: map[string]bool{"other": true}},
			want:    false,
			logPart: `does not exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(&logger.Config{Level: "info", Format: "json", Output: buf})

			store, err := items.NewStore(tt.db, database.DialectPostgres)
			require.NoError(t, err)

			assert.Equal(t, tt.want, CheckStore(context.Background(), tt.db, store, log))
			assert.Contains(t, buf.String(), tt.logPart)
		})
	}
}
