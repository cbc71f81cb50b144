package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testItemID = "6X7rM8997g3RQmvh"

func auditLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func newTestAuditLogger(buf *bytes.Buffer, config AuditLoggingConfig) *AuditLogger {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewAuditLogger(logger, config)
}

func TestStartInvocation(t *testing.T) {
	a := StartInvocation(context.Background(), "close_task", ResourceTasks, OperationClose, testItemID)
	b := StartInvocation(context.Background(), "close_task", ResourceTasks, OperationClose, testItemID)

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.StartTime.IsZero())
	assert.Empty(t, a.TraceID, "no span in context")

	a.Finish(nil)
	assert.True(t, a.Success)
	assert.Equal(t, StatusSuccess, a.Status())

	b.Finish(errors.New("Failed to close task 6X7rM8997g3RQmvh: it does not exist or is already closed"))
	assert.False(t, b.Success)
	assert.Equal(t, StatusError, b.Status())
}

func TestStartInvocation_PicksUpSpan(t *testing.T) {
	recordSpans(t)

	ctx, span := StartToolSpan(context.Background(), "move_task")
	defer span.End()

	ti := StartInvocation(ctx, "move_task", ResourceTasks, OperationMove, testItemID)
	assert.Equal(t, span.SpanContext().TraceID().String(), ti.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), ti.SpanID)
}

func TestToolInvocation_Writes(t *testing.T) {
	for op, writes := range map[string]bool{
		OperationList:    false,
		OperationGet:     false,
		OperationFilter:  false,
		OperationCreate:  true,
		OperationClose:   true,
		OperationMove:    true,
		OperationArchive: true,
		OperationDelete:  true,
	} {
		ti := &ToolInvocation{Operation: op}
		assert.Equal(t, writes, ti.Writes(), op)
	}
}

func TestAuditLogger_LevelsFollowWhatChanged(t *testing.T) {
	var buf bytes.Buffer
	al := newTestAuditLogger(&buf, AuditLoggingConfig{Enabled: true, IncludeItemIDs: true})
	ctx := context.Background()

	al.LogToolInvocation(ctx, StartInvocation(ctx, "get_tasks", ResourceTasks, OperationList, "").Finish(nil))
	al.LogToolInvocation(ctx, StartInvocation(ctx, "close_task", ResourceTasks, OperationClose, testItemID).Finish(nil))
	al.LogToolInvocation(ctx, StartInvocation(ctx, "delete_project", ResourceProjects, OperationDelete, "2203306141").
		Finish(errors.New("Authentication with Todoist failed")))

	lines := auditLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, AuditMsgRead, lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.NotContains(t, lines[0], "item_id", "list calls have no item")

	assert.Equal(t, AuditMsgWrite, lines[1]["msg"])
	assert.Equal(t, "INFO", lines[1]["level"])
	assert.Equal(t, testItemID, lines[1]["item_id"])
	assert.Equal(t, "close", lines[1]["operation"])
	assert.Equal(t, "audit", lines[1]["component"])

	assert.Equal(t, AuditMsgFailed, lines[2]["msg"])
	assert.Equal(t, "WARN", lines[2]["level"])
	assert.Equal(t, "Authentication with Todoist failed", lines[2]["error"])
}

func TestAuditLogger_OmitsItemIDs(t *testing.T) {
	var buf bytes.Buffer
	al := newTestAuditLogger(&buf, AuditLoggingConfig{Enabled: true, IncludeItemIDs: false})
	ctx := context.Background()

	al.LogToolInvocation(ctx, StartInvocation(ctx, "close_task", ResourceTasks, OperationClose, testItemID).Finish(nil))

	assert.NotContains(t, buf.String(), testItemID)
	lines := auditLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "close_task", lines[0]["tool"])
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := newTestAuditLogger(&buf, AuditLoggingConfig{Enabled: false})
	ctx := context.Background()

	al.LogToolInvocation(ctx, StartInvocation(ctx, "add_task", ResourceTasks, OperationCreate, "").Finish(nil))
	assert.Zero(t, buf.Len())

	var nilLogger *AuditLogger
	assert.NotPanics(t, func() {
		nilLogger.LogToolInvocation(ctx, StartInvocation(ctx, "add_task", ResourceTasks, OperationCreate, ""))
	})
}
