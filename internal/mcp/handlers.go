package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/support-router/internal/agent"
	"github.com/bull/support-router/internal/app"
)

// Agent is what the tools call into. *app.App implements it.
type Agent interface {
	Ask(ctx context.Context, question string) agent.Response
	Status(ctx context.Context) app.Status
}

var errEmptyQuestion = errors.New("question is required")

// makeAskHandler creates the ask_support tool handler.
// Each call runs one question through classification and returns exactly one answer.
func makeAskHandler(a Agent) func(
	context.Context, *mcp.CallToolRequest, AskSupportInput,
) (*mcp.CallToolResult, AskSupportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskSupportInput) (
		*mcp.CallToolResult, AskSupportOutput, error,
	) {
		if strings.TrimSpace(input.Question) == "" {
			return nil, AskSupportOutput{}, errEmptyQuestion
		}

		resp := a.Ask(ctx, input.Question)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: resp.Text}},
		}, newAskOutput(resp), nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(a Agent) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, app.Status, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, app.Status, error,
	) {
		return nil, a.Status(ctx), nil
	}
}
