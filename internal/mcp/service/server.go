// Package service wires the content-operations MCP server: tool and
// resource registration, transport selection, and serving.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/freightpress/freightpress/internal/mcp/conformance"
	"github.com/freightpress/freightpress/internal/snapshot"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "FreightPress MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// conformanceEnvVar enables MCP conformance fixtures when set to "1" or "true" (case-insensitive).
	conformanceEnvVar = "MCP_CONFORMANCE"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over plain HTTP with an SSE event stream.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP server address (e.g., "localhost:8081"). Defaults to localhost:8081 for HTTP transport.
}

// Deps carries the application services the MCP surface exposes.
type Deps struct {
	Store    storage.Store
	Composer *studio.Studio
	Importer *snapshot.Importer
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server over the provided store. A nil
// composer or importer is replaced with the stock one.
func New(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Composer == nil {
		deps.Composer = studio.New(deps.Store)
	}
	if deps.Importer == nil {
		deps.Importer = snapshot.NewImporter()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler: completionHandler,
	})

	registerSingletonTools(mcpServer, deps.Store)
	registerContentTools(mcpServer, deps.Store)
	registerConfigTools(mcpServer, deps.Store)
	registerRuleTools(mcpServer, deps.Store)
	registerHashTools(mcpServer, deps.Store)
	registerSnapshotTools(mcpServer, deps.Store, deps.Importer)
	registerComposeTools(mcpServer, deps.Composer)
	registerResources(mcpServer, deps.Store)
	if conformanceEnabled() {
		conformance.Register(mcpServer)
	}

	return &Server{mcpServer: mcpServer}, nil
}

// completionHandler handles completion/complete requests with empty results.
// TODO: Complete enum-valued tool arguments (platform, depth, status) from the storage tags.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, deps, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg, deps)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithHTTPTransport creates a server and serves it over HTTP transport.
func runWithHTTPTransport(ctx context.Context, cfg Config, deps Deps) error {
	// Default to localhost-only binding.
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = "localhost:8081"
	}

	server, err := New(deps)
	if err != nil {
		return err
	}

	httpTransport := NewHTTPTransportWithServer(httpAddr, server.mcpServer)
	return httpTransport.Start(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, deps Deps, transport mcp.Transport) error {
	server, err := New(deps)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// conformanceEnabled reports whether conformance fixtures should be registered.
func conformanceEnabled() bool {
	value := strings.TrimSpace(os.Getenv(conformanceEnvVar))
	if value == "" {
		return false
	}
	return value == "1" || strings.EqualFold(value, "true")
}
