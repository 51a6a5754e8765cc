// Package cli holds the planner commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/in-nis/planner/internal/config"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "planner",
	Short:        "Curriculum and lecturer planner",
	SilenceUsage: true,
	RunE:         serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// open loads the configuration and connects the store.
func open(component string) (*config.Config, *db.Store, logger.Logger, error) {
	log := logger.New(component)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := db.Open(cfg.DB, cfg.Cache.CurriculumSize)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, log, nil
}

func closeStore(store *db.Store, log logger.Logger) {
	if err := store.Close(); err != nil {
		log.Errorf("close database: %v", err)
	}
}
