package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eringen/erasite"
	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/auth"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "administrator username")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "administrator password (8 to 72 bytes)")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	if len(adminPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := erasite.NewStore(cfg.DatabasePath, cfg.MaxOpenConns)
	if err != nil {
		return err
	}
	defer store.Close()

	hash, err := auth.NewPasswordService().Hash(adminPassword)
	if err != nil {
		return err
	}
	id, err := store.CreateUser(context.Background(), adminUsername, hash, true)
	if errors.Is(err, apperror.ErrConflict) {
		return fmt.Errorf("user %q already exists", adminUsername)
	}
	if err != nil {
		return err
	}
	color.Green("Администратор %s создан (id %d)", adminUsername, id)
	return nil
}
