package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for askcampus resources.
	uriScheme = "askcampus://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "transcript",
		Name:        "transcript",
		Description: "Conversation history of the current session",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index-status",
		Description: "Chunk count and last build time of the document index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleTranscriptResource returns the session transcript.
func (s *Server) handleTranscriptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type turnInfo struct {
		Role string `json:"role"`
		Text string `json:"text"`
	}

	messages := s.ports.Turn.Transcript()
	infos := make([]turnInfo, len(messages))
	for i, m := range messages {
		infos[i] = turnInfo{Role: string(m.Role), Text: m.Text}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleIndexResource returns the index status.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Index.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index status: %w", err)
	}

	type statusInfo struct {
		Chunks    int    `json:"chunks"`
		LastBuild string `json:"last_build,omitempty"`
	}

	info := statusInfo{Chunks: stats.Chunks}
	if !stats.LastBuild.IsZero() {
		info.LastBuild = stats.LastBuild.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
