package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/internal/app"
	"github.com/scoutreport/activityform/internal/config"
	"github.com/scoutreport/activityform/internal/db"
	"github.com/scoutreport/activityform/internal/logger"
)

// loadConfig reads .env and the environment and sends logs to the
// command's stderr; stdout carries only command output.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	logger.InitTo(cmd.ErrOrStderr(), cfg.IsDevelopment(), cfg.SentryDSN)
	return cfg
}

// openDB connects without running migrations.
func openDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// withApp builds the full application, runs fn and closes it again,
// which also drains any queued notifications.
func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	a, err := app.New(loadConfig(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
