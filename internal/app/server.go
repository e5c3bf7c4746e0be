// Package app assembles the freightpress runtime: storage selection,
// content studio, snapshot importer, and the MCP surface that exposes
// them.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/freightpress/freightpress/internal/mcp/service"
	"github.com/freightpress/freightpress/internal/snapshot"
	"github.com/freightpress/freightpress/internal/storage"
	"github.com/freightpress/freightpress/internal/storage/memory"
	"github.com/freightpress/freightpress/internal/storage/sqlite"
	"github.com/freightpress/freightpress/internal/studio"
)

// Config controls the freightpress process.
type Config struct {
	// DBPath locates the SQLite database file. Empty selects
	// data/freightpress.db relative to the working directory.
	DBPath string `env:"FREIGHTPRESS_DB_PATH"`
	// Transport selects the MCP transport: "stdio" or "http".
	Transport string `env:"FREIGHTPRESS_MCP_TRANSPORT" envDefault:"stdio"`
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string `env:"FREIGHTPRESS_MCP_ADDR" envDefault:"localhost:8081"`
}

// Server wires the record store, studio, and importer behind the MCP
// service for one process lifetime.
type Server struct {
	store      storage.Store
	serviceCfg service.Config
	deps       service.Deps
}

// New builds a server from cfg. The store is resolved once: SQLite at
// the configured path, or the in-memory store when the file cannot be
// opened.
func New(cfg Config) (*Server, error) {
	transport, err := parseTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}

	store := openStore(cfg.DBPath)
	return &Server{
		store: store,
		serviceCfg: service.Config{
			Transport: transport,
			HTTPAddr:  cfg.HTTPAddr,
		},
		deps: service.Deps{
			Store:    store,
			Composer: studio.New(store),
			Importer: snapshot.NewImporter(),
		},
	}, nil
}

// Run builds a server from cfg and serves until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	defer server.Close()
	return server.Serve(ctx)
}

// Serve starts the MCP transport and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return service.Run(ctx, s.serviceCfg, s.deps)
}

// Close releases the record store. Failures are logged rather than
// returned; there is no recovery at shutdown.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
	s.store = nil
}

func parseTransport(value string) (service.TransportKind, error) {
	switch strings.TrimSpace(value) {
	case "stdio", "":
		return service.TransportStdio, nil
	case "http":
		return service.TransportHTTP, nil
	default:
		return "", fmt.Errorf("invalid transport %q: must be 'stdio' or 'http'", value)
	}
}

// openStore opens SQLite at path, creating the parent directory when
// missing. Open failures degrade to the in-memory store so the process
// always starts.
func openStore(path string) storage.Store {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "freightpress.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("create storage dir %s: %v; falling back to in-memory store", dir, err)
			return memory.New()
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		log.Printf("open sqlite store %s: %v; falling back to in-memory store", path, err)
		return memory.New()
	}
	return store
}
