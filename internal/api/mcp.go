package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yash-755/robo/internal/content"
	"github.com/yash-755/robo/internal/errx"
	"github.com/yash-755/robo/pkg/logx"
)

// Answerer produces a canned reply. Implemented by responder.Responder.
type Answerer interface {
	Respond(input string) string
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Responder Answerer
	Chat      ChatHandler // optional; ask_assistant reports a configuration error when nil
	Store     *content.Store
	// Context returns the compiled portfolio context.
	Context func() string
	Version string
}

const (
	uriContext = "portfolio://context"
	uriProfile = "portfolio://profile"
)

// NewMCPServer creates an MCP server exposing the assistant's tools and
// the portfolio resources.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"robo",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("Robo answers questions about the portfolio owner's projects, skills, certificates, hobbies and contact details."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_robo",
			mcp.WithDescription("Answer a question with the offline keyword responder. Fast and deterministic."),
			mcp.WithString("question", mcp.Description("Visitor question"), mcp.Required()),
		),
		mcpAskRobo(deps),
	)

	s.AddTool(
		mcp.NewTool("ask_assistant",
			mcp.WithDescription("Answer a question with the model-backed assistant, grounded on the portfolio context."),
			mcp.WithString("question", mcp.Description("Visitor question"), mcp.Required()),
		),
		mcpAskAssistant(deps),
	)

	s.AddTool(
		mcp.NewTool("get_project",
			mcp.WithDescription("Return one portfolio project as JSON."),
			mcp.WithString("id", mcp.Description("Project id, e.g. project-1"), mcp.Required()),
		),
		mcpGetProject(deps),
	)

	s.AddResource(
		mcp.NewResource(
			uriContext,
			"Portfolio Context",
			mcp.WithResourceDescription("Compiled portfolio context as sent to the model"),
			mcp.WithMIMEType("text/plain"),
		),
		mcpResourceContext(deps),
	)

	s.AddResource(
		mcp.NewResource(
			uriProfile,
			"Owner Profile",
			mcp.WithResourceDescription("Portfolio owner's profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpAskRobo(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		return mcpText(deps.Responder.Respond(q)), nil
	}
}

func mcpAskAssistant(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		if deps.Chat == nil {
			return mcpError(errx.KindServerConfiguration.Message()), nil
		}

		answer, err := deps.Chat.HandleChatRequest(ctx, q)
		if err != nil {
			e := errx.From(err)
			logx.Warn().Err(e.Err).Str("kind", e.Kind.String()).Msg("mcp ask_assistant failed")
			return mcpError(e.Message), nil
		}
		return mcpText(answer), nil
	}
}

func mcpGetProject(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		p, ok := deps.Store.Project(id)
		if !ok {
			return mcpError(fmt.Sprintf("no project with id %q", id)), nil
		}
		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal project: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceContext(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     deps.Context(),
			},
		}, nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Store.Profile())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
