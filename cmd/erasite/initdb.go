package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eringen/erasite"
	"github.com/eringen/erasite/auth"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Recreate the database with starter eras and an admin account",
	Long: `init-db drops every table, recreates the schema and inserts the
starter eras, their tags and the default administrator (admin / admin123).
Placeholder images for the starter eras are written to the static dir.

All existing data is lost.`,
	RunE: runInitDB,
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := erasite.NewStore(cfg.DatabasePath, cfg.MaxOpenConns)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	logger.Warnf("dropping all tables in %s", cfg.DatabasePath)
	if err := store.ResetSchema(ctx); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	if err := erasite.Seed(ctx, store, auth.NewPasswordService()); err != nil {
		return err
	}
	if err := erasite.WritePlaceholderImages(cfg.StaticDir); err != nil {
		return fmt.Errorf("placeholder images: %w", err)
	}
	logger.Infof("placeholder images written to %s", cfg.StaticDir)

	color.Green("База данных успешно инициализирована (%s)", cfg.DatabasePath)
	color.New(color.FgRed, color.Bold).Printf(
		"Администратор по умолчанию: %s / %s. Смените пароль командой create-admin!\n",
		erasite.SeedAdminUsername, erasite.SeedAdminPassword)
	return nil
}
