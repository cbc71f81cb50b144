package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResource  = "resource"
	attrResult    = "result"
	attrTool      = "tool"
)

// Todoist answers most requests well under a second; sync-heavy calls such
// as completed-task pages can take several.
var apiLatencyBuckets = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics records the series described in the package doc. All methods are
// safe on a nil or zero Metrics.
type Metrics struct {
	apiRequests     metric.Int64Counter
	apiDuration     metric.Float64Histogram
	clientInits     metric.Int64Counter
	toolInvocations metric.Int64Counter
	toolDuration    metric.Float64Histogram
	httpRequests    metric.Int64Counter
	httpDuration    metric.Float64Histogram
	activeSessions  metric.Int64UpDownCounter
	initialized     bool
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	b := instrumentBuilder{meter: meter}

	m.apiRequests = b.counter("todoist_api_requests_total", "Todoist REST requests by resource, operation and status", "{request}")
	m.apiDuration = b.histogram("todoist_api_request_duration_seconds", "Todoist REST request latency", apiLatencyBuckets)
	m.clientInits = b.counter("todoist_client_init_total", "Todoist client construction attempts by result", "{attempt}")
	m.toolInvocations = b.counter("mcp_tool_invocations_total", "MCP tool calls by tool and status", "{invocation}")
	m.toolDuration = b.histogram("mcp_tool_duration_seconds", "MCP tool latency, Todoist round trips included", apiLatencyBuckets)
	m.httpRequests = b.counter("http_requests_total", "Requests served by the HTTP transports", "{request}")
	m.httpDuration = b.histogram("http_request_duration_seconds", "HTTP transport request latency",
		[]float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10})
	if b.err == nil {
		m.activeSessions, b.err = meter.Int64UpDownCounter("active_sessions",
			metric.WithDescription("Open MCP sessions"),
			metric.WithUnit("{session}"))
		if b.err != nil {
			b.err = fmt.Errorf("failed to create active_sessions: %w", b.err)
		}
	}
	if b.err != nil {
		return nil, b.err
	}

	m.initialized = true
	return m, nil
}

// instrumentBuilder keeps the first creation error so NewMetrics reads as a
// list of series.
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name, description, unit string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		b.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return c
}

func (b *instrumentBuilder) histogram(name, description string, buckets []float64) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...))
	if err != nil {
		b.err = fmt.Errorf("failed to create %s: %w", name, err)
	}
	return h
}

func (m *Metrics) enabled() bool {
	return m != nil && m.initialized
}

// RecordAPIRequest records one outbound Todoist REST request. resource and
// operation are Resource*/Operation* constants, status StatusSuccess or
// StatusError.
func (m *Metrics) RecordAPIRequest(ctx context.Context, resource, operation, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrResource, resource),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.apiRequests.Add(ctx, 1, attrs)
	m.apiDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordClientInit records a Todoist client construction attempt; result
// is one of the InitResult constants.
func (m *Metrics) RecordClientInit(ctx context.Context, result string) {
	if !m.enabled() {
		return
	}
	m.clientInits.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records one MCP tool call.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
	m.toolInvocations.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordHTTPRequest records a request served by the SSE or streamable HTTP
// transport. path must be a route, not a raw URL.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if !m.enabled() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequests.Add(ctx, 1, attrs)
	m.httpDuration.Record(ctx, duration.Seconds(), attrs)
}

// IncrementActiveSessions counts a newly registered MCP session.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.enabled() {
		m.activeSessions.Add(ctx, 1)
	}
}

// DecrementActiveSessions counts an unregistered MCP session.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.enabled() {
		m.activeSessions.Add(ctx, -1)
	}
}
