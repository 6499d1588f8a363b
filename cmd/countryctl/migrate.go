package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"country-currency-api/internal/config"
	"country-currency-api/internal/infrastructure/database"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the countries schema",
	Long: `Apply the embedded SQL migrations. Every statement is idempotent so the
command can be run repeatedly.

Examples:
  countryctl migrate
  DB_HOST=db.internal countryctl migrate -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

func runMigrate(cmd *cobra.Command) error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db.Pool); err != nil {
		return err
	}

	return printResult(cmd, map[string]string{"status": "ok"}, "✓ Schema is up to date")
}
