// Package cmd provides the CLI commands for fedsearch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fedsearch/fedsearch/pkg/version"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	logLevel   string
)

// NewRootCmd creates the root command for the fedsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fedsearch",
		Short: "Federated search MCP server",
		Long: `fedsearch is a federated search aggregator exposed as a Model Context
Protocol (MCP) tool over JSON-RPC stdio. It classifies a query, fans out in
parallel to Brave, Tavily, Wikipedia, GitHub and Stack Exchange, merges and
ranks the results, and returns a single normalised list.`,
		Version: version.Version,
	}

	cmd.SetVersionTemplate("fedsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default: ~/.config/fedsearch/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override server.log_level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
