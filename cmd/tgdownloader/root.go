package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
)

// rootCmd runs the interactive download when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "tgdownloader",
	Short: "Download photos and videos from Telegram chats",
	Long: `tgdownloader logs in as your own Telegram account and saves the photos
and videos of a chat, channel or group to local folders.

Everything is asked interactively:
  - API id and hash on first run (from https://my.telegram.org)
  - phone number, login code and 2FA password when the session is new
  - the chat (@username, t.me link, invite link or numeric id)
  - media type, quantity and order

Albums are saved together in their own folder. Each chat keeps a
_downloaded.json log so a second run skips what is already on disk.
Press Ctrl-C at any time to stop; finished files are kept.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDownload,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFailure(err)
		os.Exit(1)
	}
}

func printFailure(err error) {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeSession:
		ui.PrintError("Telegram session lost", err)
		ui.PrintDim("Run 'tgdownloader logout' and start again to log in.")
	case apperrors.ErrorTypeConfiguration:
		ui.PrintError("Cannot continue", err)
	default:
		ui.PrintError("Download failed", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./tgdownloader.yaml or ~/.config/tgdownloader/config.yaml)")

	rootCmd.SetVersionTemplate(`tgdownloader {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
