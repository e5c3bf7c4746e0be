// Package timeouts defines shared timeout constants for the MCP
// surface. Centralizing these values prevents drift between handlers
// and makes the durations discoverable.
package timeouts

import "time"

// ToolCall caps a single store-backed tool invocation.
const ToolCall = 5 * time.Second

// Compose caps provider-backed content generation, which chains
// several model calls per request.
const Compose = 2 * time.Minute

// Snapshot caps full-store export, import, and migration calls.
const Snapshot = 30 * time.Second

// ReadHeader limits how long the HTTP transport waits for request
// headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP transport waits for in-flight
// requests during graceful shutdown.
const Shutdown = 5 * time.Second
