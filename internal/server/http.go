package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

// Transport names accepted by NewHTTPServer.
const (
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// HTTPServerConfig configures the HTTP transports.
type HTTPServerConfig struct {
	// Transport is "sse" or "streamable-http"
	Transport string
}

// HTTPServer serves an MCP server over HTTP together with the health
// endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	config     HTTPServerConfig
	mu         sync.Mutex
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	switch config.Transport {
	case TransportSSE, TransportStreamableHTTP:
	default:
		return nil, fmt.Errorf("unsupported server type: %s", config.Transport)
	}

	s := &HTTPServer{
		mcpServer: mcpServer,
		health:    NewHealthChecker(sc),
		config:    config,
	}
	if sc != nil {
		s.metrics = sc.Metrics()
	}
	return s, nil
}

// Health returns the server's health checker.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Handler builds the routing mux for the configured transport.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.health.RegisterHealthEndpoints(mux)

	switch s.config.Transport {
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)
		mux.Handle("/sse", s.wrap("/sse", sseServer))
		mux.Handle("/message", s.wrap("/message", sseServer))

	case TransportStreamableHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)
		mux.Handle("/mcp", s.wrap("/mcp", httpServer))
	}

	return mux
}

// wrap applies request metrics and server spans to an MCP endpoint.
func (s *HTTPServer) wrap(route string, next http.Handler) http.Handler {
	measured := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, route, m.Code, m.Duration)
	})
	return otelhttp.NewHandler(measured, route)
}

// Start listens on addr and serves until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *HTTPServer) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	slog.Info("starting MCP HTTP server", "transport", s.config.Transport, "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server. Readiness fails first so load
// balancers stop routing new traffic.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}
