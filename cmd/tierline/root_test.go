package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/koustreak/tierline/internal/config"
	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := RootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"dataapi", "gateway"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	root := RootCmd()
	root.SetArgs([]string{"gateway", "extra"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestOpenDB_SelectsDriverWithoutDialing(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverPostgres, database.DriverMySQL} {
		t.Run(string(driver), func(t *testing.T) {
			cfg := database.DefaultConfig()
			cfg.Driver = driver
			cfg.Host = "203.0.113.1" // TEST-NET-3, never routed

			db, err := openDB(context.Background(), cfg)
			require.NoError(t, err)
			require.NotNil(t, db)
			db.Close()
		})
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func quietLogger() (*logger.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return logger.New(&logger.Config{Level: "info", Format: "json", Output: buf}), buf
}

func TestRunDataAPI_StartsWithoutStoreAndStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1
	cfg.API.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	log, buf := quietLogger()
	require.NoError(t, runDataAPI(ctx, cfg, log))
	assert.Contains(t, buf.String(), "store not reachable at startup")
	assert.Contains(t, buf.String(), "connection pool closed")
}

func TestRunGateway_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Gateway.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, buf := quietLogger()
	require.NoError(t, runGateway(ctx, cfg, log, "test-host"))
	assert.Contains(t, buf.String(), config.DefaultBackendURL)
}
