package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"erpchat/config"
	"erpchat/logging"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "erpchat",
	Short: "ERP chat assistant",
	Long: `Chat assistant for an ERP database. Receives and approves purchase orders,
approves vendor bills and journal entries, and answers other questions with
generated SQL.`,
	Example: `  # Start the HTTP server
  $ erpchat serve

  # Load table documentation into the document store
  $ erpchat documents import ./reference --folder reference

  # Print the history of one conversation
  $ erpchat history show --chat 3f2a...`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", config.DefaultEnvFiles, "env files to load before reading the environment")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDocumentsCmd())
	rootCmd.AddCommand(newHistoryCmd())
}

// setup loads the configuration and builds the process logger.
func setup() (*config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(envFiles)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logrus.NewEntry(logger).WithField("app", "erpchat"), nil
}
