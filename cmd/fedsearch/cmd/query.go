package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fedsearch/fedsearch/internal/adapters"
	"github.com/fedsearch/fedsearch/internal/config"
	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/logging"
	"github.com/fedsearch/fedsearch/internal/search"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	limit     int
	category  string
	country   string
	language  string
	freshness string
	format    string // "text", "json"
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one federated search from the command line",
		Long: `Run a single federated search without an MCP client attached.

Classifies the query, dispatches it to the configured adapters, merges the
results, and prints them. Useful for exercising adapter configuration and
credentials before wiring fedsearch into an MCP client.

Examples:
  fedsearch query "what is the halting problem"
  fedsearch query "golang context cancellation" --category programming
  fedsearch query "ethereum gas fees" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return runQuery(cmd.Context(), cmd, q, opts)
		},
	}
	// runQuery formats its own error output (FormatForUser/FormatJSON); don't
	// let cobra print it a second time.
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Override classification (general, programming, web3, academic, technical, qa)")
	cmd.Flags().StringVar(&opts.country, "country", "", "Country code for adapters that support it")
	cmd.Flags().StringVar(&opts.language, "language", "", "Language code for adapters that support it")
	cmd.Flags().StringVar(&opts.freshness, "freshness", "", "Recency window: day, week, month")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runQuery(ctx context.Context, cmd *cobra.Command, q string, opts queryOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Server.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, cleanup, err := logging.Setup(logging.Config{Level: level})
	if err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	defer cleanup()

	registry := search.NewRegistry()
	adapters.RegisterAll(cfg, registry, cfg.CircuitBreaker, logger)
	if registry.Len() == 0 {
		return fmt.Errorf("no adapters configured: set BRAVE_API_KEY at minimum")
	}

	dispatcher := search.NewDispatcher(cfg.Dispatcher.Timeout, cfg.Dispatcher.MaxParallelism, logger)
	pipeline := search.NewPipeline(search.NewKeywordClassifier(), registry, dispatcher, logger)

	params := search.QueryParams{
		Q:          q,
		MaxResults: opts.limit,
		Country:    opts.country,
		Language:   opts.language,
		Freshness:  search.Freshness(opts.freshness),
		Category:   search.QueryCategory(opts.category),
	}

	resp, err := pipeline.Search(ctx, params)
	if err != nil {
		printQueryError(cmd, err, opts.format, level == "debug")
		return err
	}

	switch opts.format {
	case "json":
		return printQueryJSON(cmd, resp)
	default:
		printQueryText(cmd, q, resp)
		return nil
	}
}

// printQueryError renders a pipeline error the same way the corresponding
// --format flag would have rendered a successful response: a JSON object
// over stdout for scripted callers, or a short human message for a terminal.
func printQueryError(cmd *cobra.Command, err error, format string, debug bool) {
	if format == "json" {
		data, marshalErr := amerrors.FormatJSON(err)
		if marshalErr == nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return
		}
	}
	fmt.Fprintln(cmd.ErrOrStderr(), amerrors.FormatForUser(err, debug))
}

func printQueryText(cmd *cobra.Command, q string, resp *search.SearchResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d results for %q (source: %s, %s):\n\n", resp.TotalResults, q, resp.Source, resp.SearchTime)

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, r.Source, r.Title)
		fmt.Fprintf(out, "   %s\n", r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(out, "   %s\n", r.Snippet)
		}
		fmt.Fprintln(out)
	}
}

func printQueryJSON(cmd *cobra.Command, resp *search.SearchResponse) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
