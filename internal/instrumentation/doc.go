// Package instrumentation provides OpenTelemetry metrics, tracing and
// audit logging for todoist-mcp.
//
// # Metrics
//
//   - todoist_api_requests_total, todoist_api_request_duration_seconds:
//     REST requests by resource, operation and status
//   - todoist_client_init_total: client construction attempts by result,
//     missing_token among them
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: tool calls by
//     tool name and status
//   - http_requests_total, http_request_duration_seconds, active_sessions:
//     the HTTP transports
//
// Every series carries the resource attributes of the deployment:
// service.name, todoist.api.host, todoist.token_env, todoist_mcp.transport
// and todoist_mcp.read_only. The token value never leaves the client.
//
// # Tracing
//
// A tool call is a server span named tool.<name>. Each Todoist request it
// makes is a client span named todoist.<resource>.<operation> whose route
// attribute has ids collapsed (/tasks/:id/close), plus the X-Request-Id of
// mutating requests.
//
// # Audit
//
// AuditLogger writes one line per tool call: writes to Todoist at info,
// reads at debug, failures at warn.
//
// # Configuration
//
// FromEnv reads:
//   - TODOIST_MCP_INSTRUMENTATION_ENABLED (default: true)
//   - TODOIST_MCP_METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TODOIST_MCP_TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - TODOIST_MCP_METRICS_PATH (default: /metrics)
//   - TODOIST_MCP_AUDIT_ENABLED, TODOIST_MCP_AUDIT_ITEM_IDS (default: true)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME, OTEL_SERVICE_INSTANCE_ID
//
// Console exporters write to stderr; stdout carries the stdio transport.
package instrumentation
