package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/growthsystem/erpchat/core/config"
	"github.com/growthsystem/erpchat/core/infrastructure/logging"
	"github.com/growthsystem/erpchat/core/runtime"
)

var servePort string

// serveCmd runs the assistant server.
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Run the assistant HTTP server",
	RunE:          runServe,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Server port (overrides config file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configureLogging()
	log := logging.New("serve")

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		return err
	}
	if servePort != "" {
		cfg.HTTP.Port = servePort
	}

	rt, err := runtime.New(cfg)
	if err != nil {
		log.Errorf("Failed to initialize runtime: %v", err)
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Live-reload the guard policy when the config file changes.
	if err := config.Watch(ctx, configFile, rt.ApplyConfig); err != nil {
		log.Warnf("Config watch unavailable: %v", err)
	}

	return rt.Start(ctx)
}
