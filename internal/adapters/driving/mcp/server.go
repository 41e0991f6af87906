package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/esilv-labs/askcampus/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions tells connecting clients what this server is for and
// which surface to reach for first.
const instructions = `askcampus exposes a campus assistant over MCP.
Use the "ask" tool for visitor questions; answers are grounded in the
indexed campus documents. Use "route" to preview intent classification
without running a turn. The askcampus://transcript and
askcampus://index resources expose the session conversation and the
index state.`

const shutdownTimeout = 5 * time.Second

// Server adapts the assistant's driving ports to the Model Context
// Protocol. Tools and resources are registered against the wired
// ports; optional ports simply leave their surface unregistered.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates an MCP server over the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "askcampus", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr. Cancelling the
// context drains in-flight requests before returning.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP: shutdown: %v", err)
		}
	}()

	logger.Info("MCP: serving over HTTP on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
