package main

import (
	"os"

	"github.com/koustreak/tierline/internal/config"
	"github.com/koustreak/tierline/internal/logger"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tierline",
		Short:         "Multi-tier data retrieval: data-access service and HTML gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file (default $"+config.PathEnv+")")

	root.AddCommand(
		DataAPICmd(),
		GatewayCmd(),
	)

	return root
}

// setup loads the configuration and builds the process logger, tagged
// with the host name so replicas can be told apart.
func setup(cmd *cobra.Command, tier string) (*config.Config, *logger.Logger, string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, "", err
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	log := logger.New(cfg.Log.Logger(os.Stdout)).With().
		Str("tier", tier).
		Str("host", host).
		Logger()
	logger.SetGlobal(log)

	return cfg, log, host, nil
}
