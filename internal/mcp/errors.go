package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

// encodingIssueSubstring marks an invalidQuery issue in which an adapter
// reports that it cannot encode the query (e.g. a Latin-1-only provider
// given non-Latin input); such an issue gets the Latin-script hint.
const encodingIssueSubstring = "cannot be properly encoded"

// MapError converts a pipeline/adapter error into the MCP tool-level error
// envelope: a successful call whose result carries isError=true and a
// single text block, per the message table in the error-handling design.
func MapError(err error) *mcp.CallToolResult {
	if err == nil {
		return nil
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: userMessage(err)}},
	}
}

// userMessage renders the text surfaced to the MCP client for err.
func userMessage(err error) string {
	var se *amerrors.SearchError
	if !errors.As(err, &se) {
		return fmt.Sprintf("Internal error: %s", err.Error())
	}

	switch se.Code {
	case amerrors.ErrCodeNetwork:
		return fmt.Sprintf("Network error: %s", se.Message)
	case amerrors.ErrCodeRateLimit:
		return fmt.Sprintf("Rate limit: Retry after %d seconds", se.RetryAfterMs/1000)
	case amerrors.ErrCodeInvalidQuery:
		for _, issue := range se.Issues {
			if strings.Contains(issue, encodingIssueSubstring) {
				return "This query cannot be encoded by the selected provider. Try rephrasing using Latin-script terms."
			}
		}
		return fmt.Sprintf("Invalid query: %s", strings.Join(se.Issues, ", "))
	case amerrors.ErrCodeAuthorization:
		return se.Message
	case amerrors.ErrCodeClassification:
		return fmt.Sprintf("Query classification error: %s", se.Message)
	case amerrors.ErrCodeNoAdapterAvailable:
		return fmt.Sprintf("No search provider available: %s", se.Message)
	case amerrors.ErrCodeValidation:
		return fmt.Sprintf("Invalid request: %s", se.Message)
	default:
		return fmt.Sprintf("Internal error: %s", se.Message)
	}
}

