package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkaster/curio/internal/app"
	"github.com/tkaster/curio/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry daemon",
	Long: `Starts the command processor and the HTTP API, restores registry
state from the last snapshot, and journals every operation outcome. The
daemon drains in-flight operations and saves a snapshot on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cleanup := initLogging(cmd)
	defer cleanup()

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Listen = listen
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing daemon: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(log.CatConfig, "daemon starting",
		"listen", cfg.Listen,
		"db", cfg.DBPath,
		"maximum_owned", cfg.Registry.MaximumOwned,
	)

	return application.Run(ctx)
}
