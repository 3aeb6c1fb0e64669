package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/koustreak/tierline/internal/config"
	"github.com/koustreak/tierline/internal/dataapi"
	"github.com/koustreak/tierline/internal/database"
	"github.com/koustreak/tierline/internal/database/mysql"
	"github.com/koustreak/tierline/internal/database/postgres"
	"github.com/koustreak/tierline/internal/httpserver"
	"github.com/koustreak/tierline/internal/items"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/koustreak/tierline/internal/metrics"
	"github.com/spf13/cobra"
)

func DataAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dataapi",
		Short: "Serve the items table as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, _, err := setup(cmd, "dataapi")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDataAPI(ctx, cfg, log)
		},
	}
}

func runDataAPI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	pool := cfg.Database.Pool()

	db, err := openDB(ctx, pool)
	if err != nil {
		return err
	}
	defer func() {
		db.Close()
		log.Info("connection pool closed")
	}()

	store, err := items.NewStore(db, pool.Driver.Dialect())
	if err != nil {
		return err
	}

	checkCtx, cancel := context.WithTimeout(ctx, pool.ConnectTimeout)
	dataapi.CheckStore(checkCtx, db, store, log)
	cancel()

	srv := dataapi.New(store, log, metrics.New("dataapi"), pool.QueryTimeout)
	return httpserver.Run(ctx, cfg.API.Addr, srv.Routes(), log)
}

// openDB builds the pool for the configured driver. Neither driver dials
// here; connections are opened on first use.
func openDB(ctx context.Context, cfg *database.Config) (database.DB, error) {
	switch cfg.Driver {
	case database.DriverMySQL:
		d, err := mysql.New(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		d, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
