// Package mcp bridges the federated search pipeline to the Model Context
// Protocol, exposing a single "search" tool over stdio JSON-RPC.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fedsearch/fedsearch/internal/search"
	"github.com/fedsearch/fedsearch/pkg/version"
)

// Server bridges the search Pipeline to the MCP transport.
type Server struct {
	mcp      *mcp.Server
	pipeline *search.Pipeline
	logger   *slog.Logger
}

// NewServer creates a new MCP server fronting pipeline.
func NewServer(pipeline *search.Pipeline, logger *slog.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "fedsearch",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "fedsearch", version.Version
}

// registerTools registers the search tool with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Federated web search. Classifies the query, fans out to the relevant search backends (Brave, Tavily, Wikipedia, GitHub, Stack Exchange), and returns a merged, de-duplicated, ranked result list.",
	}, s.mcpSearchHandler)

	s.logger.Debug("registered MCP tool", slog.String("name", "search"))
}

// mcpSearchHandler is the MCP SDK handler for the search tool.
func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	requestID := uuid.NewString()

	params, err := input.ToQueryParams()
	if err != nil {
		return MapError(err), SearchOutput{}, nil
	}

	s.logger.Info("search started",
		slog.String("request_id", requestID),
		slog.String("query", params.Q))

	resp, err := s.pipeline.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return MapError(err), SearchOutput{}, nil
	}

	s.logger.Info("search completed",
		slog.String("request_id", requestID),
		slog.Int("result_count", len(resp.Results)))

	text := FormatSearchResults(resp)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, SearchOutput{Results: ToOutputResults(resp.Results)}, nil
}

// Serve starts the server on the given transport ("stdio" is the only
// transport the core specification requires).
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("starting MCP server", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// Close releases server resources. The MCP server itself stops when its
// context is canceled; nothing else to release.
func (s *Server) Close() error {
	return nil
}
