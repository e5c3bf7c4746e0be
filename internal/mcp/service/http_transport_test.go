package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// TestHandleHealthReportsOK ensures the liveness endpoint answers GET.
func TestHandleHealthReportsOK(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	rec := httptest.NewRecorder()
	transport.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/mcp/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	transport.handleHealth(rec, httptest.NewRequest(http.MethodPost, "/mcp/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", rec.Code)
	}
}

// TestHandleMessagesRejectsNonPost ensures the message endpoint only accepts POST.
func TestHandleMessagesRejectsNonPost(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	rec := httptest.NewRecorder()
	transport.handleMessages(rec, httptest.NewRequest(http.MethodGet, "/mcp/messages", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

// TestHandleMessagesRejectsMalformedJSON ensures broken payloads return 400
// with a session header already assigned.
func TestHandleMessagesRejectsMalformedJSON(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/messages", strings.NewReader("{"))
	transport.handleMessages(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec.Header().Get(sessionHeader) == "" {
		t.Fatal("expected session header on rejection")
	}
}

// TestHandleSSERejectsNonGet ensures the event stream only accepts GET.
func TestHandleSSERejectsNonGet(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	rec := httptest.NewRecorder()
	transport.handleSSE(rec, httptest.NewRequest(http.MethodPost, "/mcp/sse", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

// TestHandleSSESetsStreamHeaders ensures the event stream negotiates SSE.
func TestHandleSSESetsStreamHeaders(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mcp/sse", nil).WithContext(ctx)
	transport.handleSSE(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if rec.Header().Get(sessionHeader) == "" {
		t.Fatal("expected session header on stream")
	}
}

// TestConnectAssignsDistinctSessions ensures each connection gets its own session.
func TestConnectAssignsDistinctSessions(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	first, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	second, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if first.SessionID() == "" || second.SessionID() == "" {
		t.Fatal("expected non-empty session IDs")
	}
	if first.SessionID() == second.SessionID() {
		t.Fatalf("expected distinct session IDs, both %q", first.SessionID())
	}
}

// TestSessionForReusesKnownSessions ensures session lookup is stable by ID.
func TestSessionForReusesKnownSessions(t *testing.T) {
	transport := NewHTTPTransport("localhost:0")

	sess := transport.newSession()
	if got := transport.sessionFor(sess.id); got != sess {
		t.Fatal("expected lookup to return the existing session")
	}
	if got := transport.sessionFor("session-unknown"); got.id == sess.id {
		t.Fatal("expected a fresh session for an unknown ID")
	}
}

// TestConnectionWriteQueuesForStream ensures writes land on the response channel.
func TestConnectionWriteQueuesForStream(t *testing.T) {
	conn := NewHTTPTransport("localhost:0").newSession().conn

	if err := conn.Write(context.Background(), &jsonrpc.Request{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-conn.responses:
	default:
		t.Fatal("expected queued response message")
	}
}

// TestConnectionCloseStopsTraffic ensures closed connections refuse reads and writes.
func TestConnectionCloseStopsTraffic(t *testing.T) {
	conn := NewHTTPTransport("localhost:0").newSession().conn

	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := conn.Write(context.Background(), &jsonrpc.Request{}); err == nil {
		t.Fatal("expected write to fail after close")
	}
	if _, err := conn.Read(context.Background()); err == nil {
		t.Fatal("expected read to fail after close")
	}
}

// TestConnectionReadHonorsContext ensures a cancelled read returns the context error.
func TestConnectionReadHonorsContext(t *testing.T) {
	conn := NewHTTPTransport("localhost:0").newSession().conn

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := conn.Read(ctx); err != context.Canceled {
		t.Fatalf("expected context error, got %v", err)
	}
}
