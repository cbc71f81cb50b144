// Package server provides the MCP server context, the Todoist client
// accessor, and the HTTP listeners for the todoist-mcp application.
//
// # Key Components
//
// ClientAccessor owns the single shared Todoist client. It reads the token
// from the environment on every attempt, builds the client once under
// singleflight, and caches it for the life of the process. A failed
// attempt is not cached, so setting the token later takes effect on the
// next tool call.
//
// ServerContext bundles the accessor with metrics, the audit logger and the
// read-only switch, and is handed to every tool handler.
//
// HTTPServer serves the MCP server over SSE or streamable HTTP together
// with the health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, failing while no Todoist token is configured
//   - /healthz/detailed: uptime and client state
//
// MetricsServer exposes the Prometheus scrape endpoint on its own listener.
package server
