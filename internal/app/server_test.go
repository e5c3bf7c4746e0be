package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/freightpress/freightpress/internal/platform/config"
	"github.com/freightpress/freightpress/internal/storage/memory"
	"github.com/freightpress/freightpress/internal/storage/sqlite"
)

// TestConfigReadsEnvironment ensures the FREIGHTPRESS_* variables map
// onto Config fields.
func TestConfigReadsEnvironment(t *testing.T) {
	t.Setenv("FREIGHTPRESS_DB_PATH", "/tmp/freightpress-test.db")
	t.Setenv("FREIGHTPRESS_MCP_TRANSPORT", "http")
	t.Setenv("FREIGHTPRESS_MCP_ADDR", "127.0.0.1:9191")

	cfg := Config{}
	if err := config.ParseEnv(&cfg); err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/freightpress-test.db" {
		t.Fatalf("db path = %q, want env value", cfg.DBPath)
	}
	if cfg.Transport != "http" {
		t.Fatalf("transport = %q, want http", cfg.Transport)
	}
	if cfg.HTTPAddr != "127.0.0.1:9191" {
		t.Fatalf("http addr = %q, want env value", cfg.HTTPAddr)
	}
}

// TestNewRejectsUnknownTransport ensures construction fails before any
// storage work when the transport name is not recognized.
func TestNewRejectsUnknownTransport(t *testing.T) {
	_, err := New(Config{Transport: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected invalid transport error")
	}
}

// TestNewOpensSQLiteStore ensures the configured path produces a real
// SQLite database file.
func TestNewOpensSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "freightpress.db")

	server, err := New(Config{DBPath: dbPath, Transport: "stdio"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	if _, ok := server.store.(*sqlite.Store); !ok {
		t.Fatalf("store type = %T, want *sqlite.Store", server.store)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("stat database file: %v", err)
	}
}

// TestNewFallsBackToMemoryStore ensures an unopenable database path
// degrades to the in-memory store instead of failing startup.
func TestNewFallsBackToMemoryStore(t *testing.T) {
	occupied := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(occupied, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocking file: %v", err)
	}

	server, err := New(Config{DBPath: filepath.Join(occupied, "nested", "freightpress.db")})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	if _, ok := server.store.(*memory.Store); !ok {
		t.Fatalf("store type = %T, want *memory.Store", server.store)
	}
}

// TestRunRejectsUnknownTransport ensures Run surfaces construction
// errors.
func TestRunRejectsUnknownTransport(t *testing.T) {
	if err := Run(context.Background(), Config{Transport: "telegraph"}); err == nil {
		t.Fatal("expected invalid transport error")
	}
}

// TestServeStopsOnCancel ensures the HTTP transport serves and stops
// when the context ends.
func TestServeStopsOnCancel(t *testing.T) {
	server, err := New(Config{
		DBPath:    filepath.Join(t.TempDir(), "freightpress.db"),
		Transport: "http",
		HTTPAddr:  "127.0.0.1:0",
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop on cancel")
	}
}

// TestCloseToleratesNilServer ensures Close is safe on nil and empty
// servers.
func TestCloseToleratesNilServer(t *testing.T) {
	var missing *Server
	missing.Close()

	empty := &Server{}
	empty.Close()
}
