package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/freightpress/freightpress/internal/app"
	platformcmd "github.com/freightpress/freightpress/internal/platform/cmd"
)

// main starts the freightpress MCP server on stdio or HTTP.
func main() {
	log.SetPrefix("[FREIGHTPRESS] ")

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceFreightPress, func(ctx context.Context) error {
		return app.Run(ctx, cfg)
	})
	if err != nil {
		log.Fatalf("failed to serve freightpress: %v", err)
	}
}

// parseConfig loads environment defaults and then binds command-line
// flags over them.
func parseConfig(fs *flag.FlagSet, args []string) (app.Config, error) {
	cfg := app.Config{}
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return app.Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}
