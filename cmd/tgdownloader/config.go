package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tgdownloader/pkg/auth"
	"tgdownloader/pkg/config"
	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/ui"
)

const defaultConfigPath = "tgdownloader.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tgdownloader configuration files.

Configuration is loaded from, highest priority first:
  - Environment variables (TGDL_*), including a .env file
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as 'tgdownloader.yaml' in the current directory
unless a different path is given with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after files, .env and environment
variables are applied. The API hash is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Load the configuration and check its values and paths.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# tgdownloader configuration file
#
# Every option can also be set with an environment variable, for example
# TGDL_OUTPUT_DIR or TGDL_LOG_LEVEL. API credentials can come from
# TGDL_API_ID and TGDL_API_HASH.

telegram:
  # Where the login session is kept. Delete it (or run 'tgdownloader logout')
  # to log in again.
  session_file: "session.json"

  # Messages requested per history page (1-100)
  history_batch_size: 100

  # Attempts per history page before the run stops
  page_retry_attempts: 3

  # Base delay between page attempts, doubled each time
  page_retry_delay: 2s

output:
  # Each chat gets its own folder below this directory
  base_directory: "downloads"

credentials:
  # Where the API id and hash are stored: file, keyring or encrypted
  backend: "file"
  file: "config.json"

notifications:
  # Desktop notification when a run ends
  enabled: false
  on_complete: true
  on_error: true

logging:
  # debug, info, warn, error or disabled
  level: "warn"

  # Log file path (optional); logs go to stderr when empty
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		return apperrors.Configuration("configuration file already exists: "+path, nil)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return apperrors.Configuration("failed to create configuration file", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the file if the defaults do not suit you")
	fmt.Println("2. Run 'tgdownloader config validate' to check it")
	fmt.Println("3. Run 'tgdownloader' to start downloading")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return apperrors.Configuration("failed to load configuration", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.Configuration("failed to format configuration", err)
	}

	ui.PrintInfo("Configuration file", displayConfigFile())
	fmt.Println()
	fmt.Print(string(data))

	if manager, err := auth.NewManager(cfg.Credentials); err == nil {
		if creds, err := manager.Retrieve(); err == nil {
			masked := creds.Masked()
			fmt.Println()
			ui.PrintInfo("API id", fmt.Sprint(masked.APIID))
			ui.PrintInfo("API hash", masked.APIHash)
		} else {
			fmt.Println()
			ui.PrintDim("No API credentials stored yet.")
		}
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	ui.PrintInfo("Validating configuration", displayConfigFile())

	cfg, err := config.Load(configFile)
	if err != nil {
		return apperrors.Configuration("configuration is invalid", err)
	}

	problems := checkPaths(cfg)
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return apperrors.Configuration(fmt.Sprintf("%d configuration problem(s)", len(problems)), nil)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Println()
	ui.PrintInfo("Output directory", cfg.Output.BaseDirectory)
	ui.PrintInfo("Session file", cfg.Telegram.SessionFile)
	ui.PrintInfo("Credentials backend", cfg.Credentials.Backend)
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}

// checkPaths reports directories that cannot be created
func checkPaths(cfg *config.Config) []string {
	var problems []string
	if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Telegram.SessionFile), 0700); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create session directory: %v", err))
	}
	return problems
}

func displayConfigFile() string {
	if configFile == "" {
		return "(default locations)"
	}
	return configFile
}
