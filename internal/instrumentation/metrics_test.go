package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newRecordingMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("todoist-mcp-test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	require.Failf(t, "metric not collected", "no series named %s", name)
	return nil
}

// counts flattens the data points of an int64 sum into "k=v,k=v" -> value.
func counts(t *testing.T, data metricdata.Aggregation, keys ...string) map[string]int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		label := ""
		for i, k := range keys {
			v, _ := dp.Attributes.Value(attribute.Key(k))
			if i > 0 {
				label += ","
			}
			label += k + "=" + v.Emit()
		}
		out[label] = dp.Value
	}
	return out
}

func TestMetrics_RecordAPIRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newRecordingMetrics(t)

	m.RecordAPIRequest(ctx, ResourceTasks, OperationClose, StatusSuccess, 120*time.Millisecond)
	m.RecordAPIRequest(ctx, ResourceTasks, OperationClose, StatusSuccess, 80*time.Millisecond)
	m.RecordAPIRequest(ctx, ResourceProjects, OperationArchive, StatusError, time.Second)

	got := counts(t, collect(t, reader, "todoist_api_requests_total"), attrResource, attrOperation, attrStatus)
	assert.Equal(t, map[string]int64{
		"resource=tasks,operation=close,status=success":    2,
		"resource=projects,operation=archive,status=error": 1,
	}, got)

	hist, ok := collect(t, reader, "todoist_api_request_duration_seconds").(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}

func TestMetrics_RecordClientInit(t *testing.T) {
	ctx := context.Background()
	m, reader := newRecordingMetrics(t)

	m.RecordClientInit(ctx, InitResultMissingToken)
	m.RecordClientInit(ctx, InitResultMissingToken)
	m.RecordClientInit(ctx, InitResultSuccess)

	got := counts(t, collect(t, reader, "todoist_client_init_total"), attrResult)
	assert.Equal(t, map[string]int64{
		"result=missing_token": 2,
		"result=success":       1,
	}, got)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()
	m, reader := newRecordingMetrics(t)

	m.RecordToolInvocation(ctx, "close_task", StatusSuccess, 150*time.Millisecond)
	m.RecordToolInvocation(ctx, "delete_project", StatusError, 30*time.Millisecond)

	got := counts(t, collect(t, reader, "mcp_tool_invocations_total"), attrTool, attrStatus)
	assert.Equal(t, map[string]int64{
		"tool=close_task,status=success":   1,
		"tool=delete_project,status=error": 1,
	}, got)
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newRecordingMetrics(t)

	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 10*time.Millisecond)

	got := counts(t, collect(t, reader, "http_requests_total"), attrMethod, attrPath, attrStatus)
	assert.Equal(t, map[string]int64{"method=POST,path=/mcp,status=200": 1}, got)
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ctx := context.Background()
	m, reader := newRecordingMetrics(t)

	m.IncrementActiveSessions(ctx)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)

	sum, ok := collect(t, reader, "active_sessions").(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.False(t, sum.IsMonotonic)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	require.NoError(t, err)

	m := provider.Metrics()
	require.NotNil(t, m, "metrics are never nil")

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
		m.RecordAPIRequest(ctx, ResourceTasks, OperationList, StatusSuccess, time.Millisecond)
		m.RecordClientInit(ctx, InitResultSuccess)
		m.RecordToolInvocation(ctx, "get_tasks", StatusSuccess, time.Millisecond)
		m.IncrementActiveSessions(ctx)
		m.DecrementActiveSessions(ctx)
	})
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordAPIRequest(ctx, ResourceLabels, OperationGet, StatusError, time.Millisecond)
		m.RecordClientInit(ctx, InitResultMissingToken)
		m.RecordToolInvocation(ctx, "get_label", StatusError, time.Millisecond)
		m.IncrementActiveSessions(ctx)
	})
}
