package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/server"
)

// Target identifies what a tool acts on, for metrics, spans and audit.
type Target struct {
	Tool      string
	Resource  string
	Operation string
}

// InstrumentedToolHandler wraps a tool handler with a span, metrics and
// audit logging. Error results (IsError) count as failures even though
// no Go error is returned.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler(common.Target{Tool: "get_task", ...}, sc, handler))
func InstrumentedToolHandler(target Target, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		itemID := ItemIDFromArgs(request.GetArguments())

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithResource(target.Resource).
			WithOperation(target.Operation).
			WithItemID(itemID).
			WithReadOnly(sc.ReadOnly()).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, target.Tool, attrs...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.StartInvocation(ctx, target.Tool, target.Resource, target.Operation, itemID)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		var failure error
		switch {
		case err != nil:
			failure = err
		case result != nil && result.IsError:
			failure = errors.New(ResultText(result))
		}

		invocation.Finish(failure)
		instrumentation.RecordOutcome(span, failure)

		metrics.RecordToolInvocation(ctx, target.Tool, invocation.Status(), duration)
		auditLogger.LogToolInvocation(ctx, invocation)

		return result, err
	}
}

// ResultText returns the first text content of a tool result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			return text.Text
		}
	}
	return ""
}
