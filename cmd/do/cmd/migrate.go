package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
				return err
			}
			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.MigrateDown(database.DB, cfg.DBDriver); err != nil {
				return err
			}
			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return printVersion(cmd, database.DB, cfg.DBDriver)
		},
	}
}

func printVersion(cmd *cobra.Command, conn *sql.DB, driver string) error {
	version, err := db.MigrationVersion(conn, driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
