package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/koustreak/tierline/internal/config"
	"github.com/koustreak/tierline/internal/gateway"
	"github.com/koustreak/tierline/internal/gateway/backend"
	"github.com/koustreak/tierline/internal/httpserver"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/koustreak/tierline/internal/metrics"
	"github.com/spf13/cobra"
)

func GatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Render the data-access tier's items as an HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, host, err := setup(cmd, "gateway")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runGateway(ctx, cfg, log, host)
		},
	}
}

func runGateway(ctx context.Context, cfg *config.Config, log *logger.Logger, host string) error {
	client := backend.New(cfg.Gateway.BackendURL, cfg.Gateway.BackendTimeout, log)
	log.InfoWith("backend configured", map[string]interface{}{
		"url":     client.URL(),
		"timeout": cfg.Gateway.BackendTimeout.String(),
	})

	srv := gateway.New(client, host, log, metrics.New("gateway"))
	return httpserver.Run(ctx, cfg.Gateway.Addr, srv.Routes(), log)
}
