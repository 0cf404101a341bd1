package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fedsearch/fedsearch/internal/adapters"
	"github.com/fedsearch/fedsearch/internal/config"
	"github.com/fedsearch/fedsearch/internal/logging"
	"github.com/fedsearch/fedsearch/internal/mcp"
	"github.com/fedsearch/fedsearch/internal/search"
)

func newServeCmd() *cobra.Command {
	var (
		debug     bool
		transport string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the federated search MCP server",
		Long: `Start the fedsearch MCP server.

Loads configuration, registers the configured backend adapters (Brave,
Tavily, Wikipedia, GitHub, Stack Exchange), and serves the "search" tool
over the given transport. stdio is the only transport the specification
requires; all server logging goes to stderr so stdout stays reserved for
the JSON-RPC stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport == "stdio" {
				if err := verifyStdinForMCP(); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), transport, debug)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport to serve on (stdio)")

	return cmd
}

func runServe(ctx context.Context, transport string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Server.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}

	logger, cleanup, err := logging.Setup(logging.Config{Level: level})
	if err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	defer cleanup()

	registry := search.NewRegistry()
	adapters.RegisterAll(cfg, registry, cfg.CircuitBreaker, logger)

	dispatcher := search.NewDispatcher(cfg.Dispatcher.Timeout, cfg.Dispatcher.MaxParallelism, logger)
	dispatcher.WithCache(search.NewCache(cfg.Cache.MaxEntries))

	pipeline := search.NewPipeline(search.NewKeywordClassifier(), registry, dispatcher, logger)

	server, err := mcp.NewServer(pipeline, logger)
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	logger.Info("fedsearch starting",
		slog.String("transport", transport),
		slog.Int("adapters", registry.Len()))

	return server.Serve(ctx, transport)
}

// verifyStdinForMCP rejects an interactive stdin: the stdio transport expects
// a JSON-RPC client on the other end of a pipe, not a human at a terminal.
func verifyStdinForMCP() error {
	info, err := os.Stdin.Stat()
	if err != nil {
		return nil
	}
	if (info.Mode() & os.ModeCharDevice) != 0 {
		return fmt.Errorf("stdin is a terminal, not a pipe: fedsearch serve expects an MCP client to speak JSON-RPC over stdin/stdout")
	}
	return nil
}
