package server

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

// NewHooks returns MCP server hooks that track active sessions and log
// session lifecycle and protocol errors.
func NewHooks(metrics *instrumentation.Metrics) *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		metrics.IncrementActiveSessions(ctx)
		slog.Debug("session registered", "session_id", session.SessionID())
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		metrics.DecrementActiveSessions(ctx)
		slog.Debug("session unregistered", "session_id", session.SessionID())
	})

	hooks.AddOnError(func(_ context.Context, _ any, method mcp.MCPMethod, _ any, err error) {
		slog.Warn("mcp request failed", "method", string(method), "error", err)
	})

	return hooks
}
