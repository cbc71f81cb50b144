package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Audit messages. Writes are the trail worth keeping: who closed, moved or
// deleted what in Todoist. Reads only show up at debug level.
const (
	AuditMsgWrite  = "todoist_write"
	AuditMsgRead   = "todoist_read"
	AuditMsgFailed = "tool_failed"
)

var readOperations = map[string]bool{
	OperationList:   true,
	OperationGet:    true,
	OperationFilter: true,
}

// ToolInvocation is the audit record of one tool call. Argument values
// such as task content or comment text are never recorded, only what was
// acted on.
type ToolInvocation struct {
	ID        string
	Tool      string
	Resource  string
	Operation string
	ItemID    string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// StartInvocation opens the audit record of a tool call. The trace and span
// ids are taken from the span in ctx, if any.
func StartInvocation(ctx context.Context, tool, resource, operation, itemID string) *ToolInvocation {
	ti := &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		Resource:  resource,
		Operation: operation,
		ItemID:    itemID,
		StartTime: time.Now(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// Finish stamps the duration and outcome. A nil err is a success.
func (ti *ToolInvocation) Finish(err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = err == nil
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// Status returns the metric label for the outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// Writes reports whether the tool changes data in Todoist.
func (ti *ToolInvocation) Writes() bool {
	return !readOperations[ti.Operation]
}

// LogAttrs returns the attributes of the audit line.
func (ti *ToolInvocation) LogAttrs(includeItemID bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Resource != "" {
		attrs = append(attrs, slog.String("resource", ti.Resource))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if includeItemID && ti.ItemID != "" {
		attrs = append(attrs, slog.String("item_id", ti.ItemID))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID), slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes one line per finished tool invocation. A nil
// AuditLogger discards everything.
type AuditLogger struct {
	logger *slog.Logger
	config AuditLoggingConfig
}

// NewAuditLogger creates an AuditLogger. A nil logger means slog.Default().
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With("component", "audit"), config: config}
}

// LogToolInvocation logs failures at warn, writes at info and reads at debug.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.config.Enabled {
		return
	}

	level, msg := slog.LevelDebug, AuditMsgRead
	switch {
	case !ti.Success:
		level, msg = slog.LevelWarn, AuditMsgFailed
	case ti.Writes():
		level, msg = slog.LevelInfo, AuditMsgWrite
	}
	al.logger.LogAttrs(ctx, level, msg, ti.LogAttrs(al.config.IncludeItemIDs)...)
}
