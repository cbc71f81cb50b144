package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span todoist-mcp starts.
const TracerName = "github.com/teemow/todoist-mcp"

// Span attribute keys.
const (
	SpanAttrTool       = "mcp.tool"
	SpanAttrItemID     = "mcp.item_id"
	SpanAttrReadOnly   = "mcp.read_only"
	SpanAttrResource   = "todoist.resource"
	SpanAttrOperation  = "todoist.operation"
	SpanAttrMethod     = "todoist.http_method"
	SpanAttrRoute      = "todoist.route"
	SpanAttrHTTPStatus = "todoist.http_status"

	// SpanAttrRequestID is the X-Request-Id sent with mutating requests,
	// the handle Todoist support asks for.
	SpanAttrRequestID = "todoist.request_id"
)

// SpanAttributeBuilder collects the attributes of a tool span.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{attrs: make([]attribute.KeyValue, 0, 4)}
}

// WithResource adds the Todoist resource the tool acts on.
func (b *SpanAttributeBuilder) WithResource(resource string) *SpanAttributeBuilder {
	if resource != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrResource, resource))
	}
	return b
}

// WithOperation adds the operation type.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	if operation != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	}
	return b
}

// WithItemID adds the id of the task, project, ... when there is one.
func (b *SpanAttributeBuilder) WithItemID(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrItemID, id))
	}
	return b
}

// WithReadOnly records whether the server runs in read-only mode.
func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartToolSpan starts the server span of one MCP tool call, named
// "tool.<name>". The caller ends it.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartAPISpan starts the client span of one Todoist REST request, named
// "todoist.<resource>.<operation>". path is reduced to its route so ids
// do not end up in span attributes twice.
func StartAPISpan(ctx context.Context, resource, operation, method, path string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "todoist."+resource+"."+operation,
		trace.WithAttributes(
			attribute.String(SpanAttrResource, resource),
			attribute.String(SpanAttrOperation, operation),
			attribute.String(SpanAttrMethod, method),
			attribute.String(SpanAttrRoute, NormalizeAPIPath(path)),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetRequestID tags span with the X-Request-Id of a mutating request.
func SetRequestID(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(SpanAttrRequestID, requestID))
	}
}

// SetResponseStatus tags span with the HTTP status Todoist answered with.
func SetResponseStatus(span trace.Span, statusCode int) {
	span.SetAttributes(attribute.Int(SpanAttrHTTPStatus, statusCode))
}

// RecordOutcome marks span failed with err, or OK when err is nil.
func RecordOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
