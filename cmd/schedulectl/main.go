package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/league-scheduler-api/internal/app"
	"github.com/noah-isme/league-scheduler-api/pkg/config"
	"github.com/noah-isme/league-scheduler-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedulectl",
		Short: "Operate the league scheduler from the command line",
	}
	rootCmd.AddCommand(newMigrateCmd(), newAutoBuildCmd(), newGridCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp loads configuration, connects, runs fn and releases the connections.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Error("bootstrap failed", zap.Error(err))
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
