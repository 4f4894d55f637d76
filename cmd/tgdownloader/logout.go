package main

import (
	"github.com/spf13/cobra"

	"tgdownloader/pkg/auth"
	"tgdownloader/pkg/config"
	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/telegram"
	"tgdownloader/pkg/ui"
)

// logoutCmd forgets the local login
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved Telegram session and API credentials",
	Long: `Remove the saved Telegram session file and the stored API id/hash.

The next run asks for API credentials and logs in again. Downloaded files
and the per-chat download logs are kept.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return apperrors.Configuration("failed to load configuration", err)
	}

	if err := telegram.Logout(cfg.Telegram); err != nil {
		return err
	}
	ui.PrintSuccess("Session removed: " + cfg.Telegram.SessionFile)

	manager, err := auth.NewManager(cfg.Credentials)
	if err != nil {
		return apperrors.Configuration("failed to initialize credential storage", err)
	}
	if err := manager.Delete(); err != nil {
		return apperrors.Configuration("failed to remove API credentials", err)
	}
	ui.PrintSuccess("API credentials removed")
	return nil
}
