package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "stickeragent",
		Short: "Wedding sticker chat assistant",
		Long: `stickeragent collects the title, names, date and courtesy line for a
wedding sticker through a short conversation, in a terminal or over HTTP.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "path to YAML config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stickeragent version %s\n", version)
		},
	}
}

// setup loads config and logging for a subcommand.
func setup(cmd *cobra.Command) (*Config, func(), error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := loadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	closer := setupLogging(config.Log)
	return config, func() { _ = closer.Close() }, nil
}
