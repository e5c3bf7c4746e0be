//go:build !conformance

package conformance

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Register does nothing in regular builds. Build with the conformance
// tag to register the protocol test fixtures.
func Register(_ *mcp.Server) {}
