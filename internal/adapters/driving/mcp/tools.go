package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/esilv-labs/askcampus/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the visitor question to answer"`
	Mode     string `json:"mode,omitempty" jsonschema:"turn mode: auto, retrieval or form (default auto)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Intent  string   `json:"intent"`
	Sources []string `json:"sources,omitempty"`
}

// RouteInput is the input schema for the route tool.
type RouteInput struct {
	Utterance string `json:"utterance" jsonschema:"the utterance to classify"`
}

// RouteOutput is the output schema for the route tool.
type RouteOutput struct {
	Intent string `json:"intent"`
	Basis  string `json:"basis"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the campus assistant a question about the school",
	}, s.handleAsk)

	if s.ports.Router != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "route",
			Description: "Classify an utterance without answering it",
		}, s.handleRoute)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	mode := domain.Mode(input.Mode)
	if input.Mode == "" {
		mode = domain.ModeAuto
	}

	result, err := s.ports.Turn.Handle(ctx, input.Question, mode)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("handling turn: %w", err)
	}

	return nil, AskOutput{
		Answer:  result.Message,
		Intent:  string(result.Intent),
		Sources: result.Sources,
	}, nil
}

// handleRoute handles the route tool invocation.
func (s *Server) handleRoute(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RouteInput,
) (*mcp.CallToolResult, RouteOutput, error) {
	decision := s.ports.Router.Route(ctx, input.Utterance)

	return nil, RouteOutput{
		Intent: string(decision.Intent),
		Basis:  string(decision.Basis),
	}, nil
}
