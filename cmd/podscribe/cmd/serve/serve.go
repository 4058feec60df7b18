package serve

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"podscribe/internal/api/server"
	"podscribe/internal/app"
	"podscribe/internal/config"
)

var (
	host       string
	port       string
	policyPath string
	env        string
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen host")
	Cmd.Flags().StringVar(&port, "port", "8080", "listen port")
	Cmd.Flags().StringVar(&policyPath, "policy", "", "YAML policy file overriding the built-in constants")
	Cmd.Flags().StringVar(&env, "env", "development", "environment (development or production)")
}

func run() error {
	creds, err := config.GetCredentials()
	if err != nil {
		return err
	}
	policy, err := config.LoadPolicy(policyPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	pipe, err := app.InitializePipeline(creds, policy, logger)
	if err != nil {
		return err
	}
	client, err := app.InitializeSpotifyClient(creds, policy)
	if err != nil {
		return err
	}

	srv := server.NewServer(server.Config{
		Host:        host,
		Port:        port,
		IdleTimeout: time.Minute,
		Environment: env,
	}, pipe, client, logger)

	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
