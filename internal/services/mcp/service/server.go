package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/pipdeck/internal/services/mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "pipdeck"
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for HTTP transport. Defaults to
	// localhost:8081.
	HTTPAddr string
	// AllowedHosts lists non-loopback Host header values accepted over HTTP.
	AllowedHosts []string
}

// Server hosts the story tools.
type Server struct {
	mcpServer *mcp.Server
}

// New creates an MCP server. Each module of the host returned by build is
// registered; build receives the server's resource notifier so mutating
// tools can announce changes.
func New(build func(notify tools.ResourceUpdateNotifier) *tools.Host) (*Server, error) {
	if build == nil {
		return nil, fmt.Errorf("tool host is required")
	}
	s := &Server{mcpServer: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)}
	host := build(s.Notify)
	if host == nil {
		return nil, fmt.Errorf("tool host is required")
	}
	for _, module := range host.Modules() {
		module.Register(s.mcpServer)
	}
	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcpServer
}

// Notify sends a resource-updated notification to subscribed clients.
func (s *Server) Notify(ctx context.Context, uri string) {
	if s == nil || s.mcpServer == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
		log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
	}
}

// Run serves MCP on the configured transport until ctx ends.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio:
		return s.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return newHTTPTransport(cfg, s.mcpServer).Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// serveWithTransport runs the MCP session loop on transport. Cancellation
// is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
