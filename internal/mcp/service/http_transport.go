package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/freightpress/freightpress/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// sessionHeader carries the session identity between HTTP calls.
const sessionHeader = "X-MCP-Session-ID"

// messageBuffer bounds the per-session request and response channels.
const messageBuffer = 10

// HTTPTransport implements mcp.Transport over plain HTTP: JSON-RPC
// messages arrive as POST bodies and server-initiated messages stream
// out over SSE. Each session gets its own MCP server run.
//
// TODO: Add bearer-token authentication before exposing this transport beyond localhost.
type HTTPTransport struct {
	addr   string
	server *mcp.Server

	mu       sync.RWMutex
	sessions map[string]*httpSession

	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
}

// httpSession pairs one logical client with its connection. The once
// guard keeps a single server run per session however many HTTP
// requests arrive.
type httpSession struct {
	id   string
	conn *httpConnection
	once sync.Once
}

// httpConnection implements mcp.Connection over paired message channels.
type httpConnection struct {
	sessionID string
	requests  chan jsonrpc.Message
	responses chan jsonrpc.Message
	done      chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewHTTPTransport creates an HTTP transport bound to addr.
func NewHTTPTransport(addr string) *HTTPTransport {
	if addr == "" {
		addr = "localhost:8081"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
	}
}

// NewHTTPTransportWithServer creates an HTTP transport that serves the
// provided MCP server.
func NewHTTPTransportWithServer(addr string, server *mcp.Server) *HTTPTransport {
	transport := NewHTTPTransport(addr)
	transport.server = server
	return transport
}

// Connect implements mcp.Transport. Each call opens a fresh session
// whose connection feeds the MCP server from later HTTP requests.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return t.newSession().conn, nil
}

// Start serves the HTTP endpoints until the context ends.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/messages", t.handleMessages)
	mux.HandleFunc("/mcp/sse", t.handleSSE)
	mux.HandleFunc("/mcp/health", t.handleHealth)

	t.httpServer = &http.Server{Addr: t.addr, Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader}

	log.Printf("starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down MCP HTTP server")
		t.serverCancel()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// handleMessages accepts one JSON-RPC message per POST. Requests block
// until the server answers; notifications return 204 immediately.
func (t *HTTPTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := t.sessionFor(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, sess.id)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("read request: %v", err), http.StatusBadRequest)
		return
	}

	var msg jsonrpc.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON-RPC message: %v", err), http.StatusBadRequest)
		return
	}

	// Responses have no business arriving here, and a request without
	// an ID is a notification that needs no reply.
	wantReply := true
	switch v := msg.(type) {
	case *jsonrpc.Response:
		http.Error(w, "unexpected response message", http.StatusBadRequest)
		return
	case *jsonrpc.Request:
		wantReply = v.ID != jsonrpc.ID{}
	}

	t.ensureRunning(sess)

	select {
	case sess.conn.requests <- msg:
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	if !wantReply {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	select {
	case resp := <-sess.conn.responses:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("encode MCP response: %v", err)
		}
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
	}
}

// handleSSE streams server-initiated messages for one session.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := t.sessionFor(r.URL.Query().Get("session"))
	t.ensureRunning(sess)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(sessionHeader, sess.id)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sess.conn.done:
			return
		case msg := <-sess.conn.responses:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("marshal SSE message: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// handleHealth reports transport liveness.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// sessionFor returns the session with the given id, or a fresh one when
// the id is empty or unknown.
func (t *HTTPTransport) sessionFor(id string) *httpSession {
	if id != "" {
		t.mu.RLock()
		existing := t.sessions[id]
		t.mu.RUnlock()
		if existing != nil {
			return existing
		}
	}
	return t.newSession()
}

func (t *HTTPTransport) newSession() *httpSession {
	id := newSessionID()
	sess := &httpSession{
		id: id,
		conn: &httpConnection{
			sessionID: id,
			requests:  make(chan jsonrpc.Message, messageBuffer),
			responses: make(chan jsonrpc.Message, messageBuffer),
			done:      make(chan struct{}),
		},
	}

	t.mu.Lock()
	t.sessions[id] = sess
	t.mu.Unlock()

	return sess
}

// ensureRunning starts the MCP server for this session on first use.
func (t *HTTPTransport) ensureRunning(sess *httpSession) {
	if t.server == nil {
		return
	}
	sess.once.Do(func() {
		go func() {
			_ = t.server.Run(t.serverCtx, connTransport{conn: sess.conn})
		}()
	})
}

// Read implements mcp.Connection. It hands the server messages posted
// by HTTP clients.
func (c *httpConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	select {
	case msg := <-c.requests:
		return msg, nil
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Write implements mcp.Connection. Messages queue for the waiting POST
// or the session's SSE stream.
func (c *httpConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}

	select {
	case c.responses <- msg:
		return nil
	case <-c.done:
		return fmt.Errorf("connection closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements mcp.Connection.
func (c *httpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return nil
}

// SessionID implements mcp.Connection.
func (c *httpConnection) SessionID() string {
	return c.sessionID
}

// connTransport hands mcp.Server.Run a pre-built connection.
type connTransport struct {
	conn mcp.Connection
}

// Connect implements mcp.Transport.
func (ct connTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return ct.conn, nil
}

func newSessionID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("session-%x", b)
}
