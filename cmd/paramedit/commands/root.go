// Package commands provides the CLI commands for paramedit.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paramedit/paramedit/internal/command"
	"github.com/paramedit/paramedit/internal/config"
	"github.com/paramedit/paramedit/internal/host/memhost"
	"github.com/paramedit/paramedit/internal/logging"
	"github.com/paramedit/paramedit/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	configDir string
)

// cfg is the loaded configuration, available to all subcommands.
var cfg *types.Config

// resolvedDir is the directory project config was loaded from.
var resolvedDir string

var rootCmd = &cobra.Command{
	Use:   "paramedit",
	Short: "paramedit - user parameter editor",
	Long: `paramedit edits a design document's user parameters through a
transactional session: edits preview live against the host and are kept
on commit or rolled back on cancel.

Run 'paramedit list' to inspect parameters, 'paramedit set' or
'paramedit del' for one-shot edits, or 'paramedit serve' to expose the
session over an HTTP API.`,
	Version:           Version,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print human-readable logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVarP(&configDir, "directory", "C", "", "Directory to load project config from")

	rootCmd.SetVersionTemplate(fmt.Sprintf("paramedit %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(delCmd)
	rootCmd.AddCommand(applyCmd)
}

// setup runs before every subcommand: env file, logging, config, and the
// unit table for command parsing.
func setup(cmd *cobra.Command, args []string) error {
	// A .env in the working directory is a convenience, not a requirement.
	godotenv.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(logLevel)
	logCfg.Pretty = printLogs
	logging.Init(logCfg)

	resolvedDir = configDir
	if resolvedDir == "" {
		resolvedDir, _ = os.Getwd()
	}

	var err error
	cfg, err = config.Load(resolvedDir)
	if err != nil {
		return err
	}

	command.SetUnitValidator(memhost.ValidUnit)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
