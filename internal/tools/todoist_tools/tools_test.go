package todoist_tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/envelope"
)

func newTestToolset(t *testing.T, api todoist.API, token string, readOnly bool) *Toolset {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			LookupEnv: func(string) (string, bool) { return token, token != "" },
			Factory: func(context.Context, string) (todoist.API, error) {
				return api, nil
			},
		},
		ReadOnly: readOnly,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return NewToolset(sc)
}

func (ts *Toolset) definition(t *testing.T, name string) definition {
	t.Helper()
	for _, def := range ts.definitions() {
		if def.tool.Name == name {
			return def
		}
	}
	t.Fatalf("tool %q not defined", name)
	return definition{}
}

// callTool invokes a tool and decodes its JSON envelope.
func callTool(t *testing.T, ts *Toolset, name string, args map[string]any) (*mcp.CallToolResult, any) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := ts.handler(ts.definition(t, name))(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var decoded any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded), text.Text)
	return result, decoded
}

func asObject(t *testing.T, v any) map[string]any {
	t.Helper()
	obj, ok := v.(map[string]any)
	require.True(t, ok, "expected JSON object, got %T", v)
	return obj
}

func TestAddTask_SendsOnlyGivenArguments(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	result, out := callTool(t, ts, "add_task", map[string]any{
		"content":    "Buy milk",
		"project_id": "123",
	})
	assert.False(t, result.IsError)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "AddTask", calls[0].Method)
	assert.Equal(t, todoist.Args{"content": "Buy milk", "project_id": "123"}, calls[0].Args)

	obj := asObject(t, out)
	assert.Equal(t, "new-1", obj["id"])
	assert.Equal(t, "Buy milk", obj["content"])
}

func TestAddTask_NormalizesDates(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	callTool(t, ts, "add_task", map[string]any{
		"content":       "Report",
		"due_date":      "2024-03-01",
		"deadline_date": "not a date",
		"labels":        []any{"work", "urgent"},
		"priority":      float64(4),
	})

	args := api.Calls()[0].Args
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, args["due_date"])
	assert.Equal(t, "not a date", args["deadline_date"])
	assert.Equal(t, []string{"work", "urgent"}, args["labels"])
	assert.Equal(t, 4, args["priority"])
}

func TestGetTasks_LimitAppliedAfterDrain(t *testing.T) {
	api := newFakeAPI()
	api.taskPages = [][]todoist.Task{
		{{ID: "1"}, {ID: "2"}},
		{{ID: "3"}, {ID: "4"}},
		{{ID: "5"}, {ID: "6"}},
	}
	ts := newTestToolset(t, api, "token", false)

	_, out := callTool(t, ts, "get_tasks", map[string]any{"project_id": "123", "limit": float64(2)})

	items, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "1", asObject(t, items[0])["id"])
	assert.Equal(t, "2", asObject(t, items[1])["id"])
	assert.Equal(t, todoist.Args{"project_id": "123"}, api.Calls()[0].Args)
}

func TestGetTasks_NoLimitReturnsEverything(t *testing.T) {
	api := newFakeAPI()
	api.taskPages = [][]todoist.Task{{{ID: "1"}}, {{ID: "2"}}, {{ID: "3"}}}
	ts := newTestToolset(t, api, "token", false)

	_, out := callTool(t, ts, "get_tasks", nil)
	assert.Len(t, out, 3)
}

func TestGetTasks_EmptyIsArray(t *testing.T) {
	ts := newTestToolset(t, newFakeAPI(), "token", false)
	_, out := callTool(t, ts, "get_tasks", nil)
	assert.Equal(t, []any{}, out)
}

func TestGetTasks_PageErrorIsClassified(t *testing.T) {
	api := newFakeAPI()
	api.taskPages = [][]todoist.Task{{{ID: "1"}}}
	api.listErr = errors.New("failed to list tasks: connection reset")
	ts := newTestToolset(t, api, "token", false)

	result, out := callTool(t, ts, "get_tasks", nil)
	assert.True(t, result.IsError)
	obj := asObject(t, out)
	assert.Equal(t, "Error in get_tasks", obj["error"])
	assert.Contains(t, obj["details"], "connection reset")
}

func TestUpdateTask_RefusedSkipsReadBack(t *testing.T) {
	api := newFakeAPI()
	api.boolResult = false
	ts := newTestToolset(t, api, "token", false)

	result, out := callTool(t, ts, "update_task", map[string]any{"task_id": "9", "priority": float64(4)})
	assert.False(t, result.IsError)

	obj := asObject(t, out)
	assert.Equal(t, "failed", obj["status"])
	assert.Equal(t, "Failed to update task 9: it does not exist", obj["message"])
	assert.Equal(t, []string{"UpdateTask"}, api.methods())
}

func TestUpdateTask_ReadsBackTask(t *testing.T) {
	api := newFakeAPI()
	api.tasks["9"] = &todoist.Task{ID: "9", Content: "Renamed", Priority: 4}
	ts := newTestToolset(t, api, "token", false)

	_, out := callTool(t, ts, "update_task", map[string]any{"task_id": "9", "content": "Renamed"})

	assert.Equal(t, []string{"UpdateTask", "GetTask"}, api.methods())
	assert.Equal(t, todoist.Args{"content": "Renamed"}, api.Calls()[0].Args)
	obj := asObject(t, out)
	assert.Equal(t, "Renamed", obj["content"])
}

func TestUpdateTask_ReadBackFailureIsClassified(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	result, out := callTool(t, ts, "update_task", map[string]any{"task_id": "9", "content": "x"})
	assert.True(t, result.IsError)
	obj := asObject(t, out)
	assert.Equal(t, "Error in update_task for item 9", obj["error"])
	assert.Contains(t, obj["details"], "404")
}

func TestMoveTask(t *testing.T) {
	t.Run("requires one destination", func(t *testing.T) {
		api := newFakeAPI()
		ts := newTestToolset(t, api, "token", false)
		for _, args := range []map[string]any{
			{"task_id": "1"},
			{"task_id": "1", "project_id": "p", "section_id": "s"},
		} {
			result, out := callTool(t, ts, "move_task", args)
			assert.True(t, result.IsError)
			assert.Contains(t, asObject(t, out)["details"], "exactly one")
		}
		assert.Empty(t, api.Calls())
	})

	t.Run("moves and reads back", func(t *testing.T) {
		api := newFakeAPI()
		api.tasks["1"] = &todoist.Task{ID: "1", ProjectID: "p2"}
		ts := newTestToolset(t, api, "token", false)

		_, out := callTool(t, ts, "move_task", map[string]any{"task_id": "1", "project_id": "p2"})
		assert.Equal(t, []string{"MoveTask", "GetTask"}, api.methods())
		assert.Equal(t, "p2", asObject(t, out)["project_id"])
	})
}

func TestStatusTools(t *testing.T) {
	tests := []struct {
		tool   string
		args   map[string]any
		method string
		action string
	}{
		{tool: "close_task", args: map[string]any{"task_id": "9"}, method: "CloseTask", action: "closed"},
		{tool: "complete_task", args: map[string]any{"task_id": "9"}, method: "CloseTask", action: "closed"},
		{tool: "reopen_task", args: map[string]any{"task_id": "9"}, method: "ReopenTask", action: "reopened"},
		{tool: "delete_task", args: map[string]any{"task_id": "9"}, method: "DeleteTask", action: "deleted"},
		{tool: "delete_project", args: map[string]any{"project_id": "9"}, method: "DeleteProject", action: "deleted"},
		{tool: "archive_project", args: map[string]any{"project_id": "9"}, method: "ArchiveProject", action: "archived"},
		{tool: "unarchive_project", args: map[string]any{"project_id": "9"}, method: "UnarchiveProject", action: "unarchived"},
		{tool: "delete_section", args: map[string]any{"section_id": "9"}, method: "DeleteSection", action: "deleted"},
		{tool: "delete_label", args: map[string]any{"label_id": "9"}, method: "DeleteLabel", action: "deleted"},
		{tool: "delete_comment", args: map[string]any{"comment_id": "9"}, method: "DeleteComment", action: "deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			api := newFakeAPI()
			ts := newTestToolset(t, api, "token", false)

			_, out := callTool(t, ts, tt.tool, tt.args)
			assert.Equal(t, map[string]any{"success": true, "id": "9", "action": tt.action}, out)
			assert.Equal(t, []string{tt.method}, api.methods())

			api.boolResult = false
			_, out = callTool(t, ts, tt.tool, tt.args)
			obj := asObject(t, out)
			assert.Equal(t, "failed", obj["status"])
			assert.Contains(t, obj["message"], "or is already "+tt.action)
		})
	}
}

func TestRefusalMessages(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{tool: "update_task", args: map[string]any{"task_id": "9", "content": "x"}, want: "Failed to update task 9: it does not exist"},
		{tool: "move_task", args: map[string]any{"task_id": "9", "project_id": "p"}, want: "Failed to move task 9: it does not exist"},
		{tool: "close_task", args: map[string]any{"task_id": "9"}, want: "Failed to close task 9: it does not exist or is already closed"},
		{tool: "archive_project", args: map[string]any{"project_id": "9"}, want: "Failed to archive project 9: it does not exist or is already archived"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			api := newFakeAPI()
			api.boolResult = false
			ts := newTestToolset(t, api, "token", false)

			_, out := callTool(t, ts, tt.tool, tt.args)
			assert.Equal(t, map[string]any{"status": "failed", "message": tt.want}, out)
		})
	}
}

// Ids arrive as strings, whole JSON numbers or json.Number depending on the
// client. The id in the result must be the one the backend was called with.
func TestItemIDs_ResultMatchesBackendCall(t *testing.T) {
	ids := []struct {
		name  string
		value any
	}{
		{name: "string", value: "9"},
		{name: "number", value: float64(9)},
		{name: "json number", value: json.Number("9")},
	}

	statusTools := []struct {
		tool   string
		key    string
		method string
		action string
	}{
		{tool: "close_task", key: "task_id", method: "CloseTask", action: "closed"},
		{tool: "reopen_task", key: "task_id", method: "ReopenTask", action: "reopened"},
		{tool: "delete_task", key: "task_id", method: "DeleteTask", action: "deleted"},
		{tool: "archive_project", key: "project_id", method: "ArchiveProject", action: "archived"},
		{tool: "delete_section", key: "section_id", method: "DeleteSection", action: "deleted"},
		{tool: "delete_comment", key: "comment_id", method: "DeleteComment", action: "deleted"},
	}

	for _, id := range ids {
		for _, tt := range statusTools {
			t.Run(tt.tool+" "+id.name, func(t *testing.T) {
				api := newFakeAPI()
				ts := newTestToolset(t, api, "token", false)

				_, out := callTool(t, ts, tt.tool, map[string]any{tt.key: id.value})
				require.Len(t, api.Calls(), 1)
				assert.Equal(t, tt.method, api.Calls()[0].Method)
				assert.Equal(t, "9", api.Calls()[0].ID)
				assert.Equal(t, map[string]any{"success": true, "id": "9", "action": tt.action}, out)
			})
		}

		t.Run("update_task "+id.name, func(t *testing.T) {
			api := newFakeAPI()
			api.tasks["9"] = &todoist.Task{ID: "9", Priority: 4}
			ts := newTestToolset(t, api, "token", false)

			result, out := callTool(t, ts, "update_task", map[string]any{"task_id": id.value, "priority": float64(4)})
			assert.False(t, result.IsError)
			calls := api.Calls()
			require.Len(t, calls, 2)
			assert.Equal(t, recordedCall{Method: "UpdateTask", ID: "9", Args: todoist.Args{"priority": 4}}, calls[0])
			assert.Equal(t, recordedCall{Method: "GetTask", ID: "9"}, calls[1])
			assert.Equal(t, "9", asObject(t, out)["id"])
		})

		t.Run("move_task "+id.name, func(t *testing.T) {
			api := newFakeAPI()
			api.tasks["9"] = &todoist.Task{ID: "9", ProjectID: "p2"}
			ts := newTestToolset(t, api, "token", false)

			_, out := callTool(t, ts, "move_task", map[string]any{"task_id": id.value, "project_id": "p2"})
			assert.Equal(t, []string{"MoveTask", "GetTask"}, api.methods())
			assert.Equal(t, "9", api.Calls()[0].ID)
			assert.Equal(t, "9", api.Calls()[1].ID)
			assert.Equal(t, "p2", asObject(t, out)["project_id"])
		})

		t.Run("error summary "+id.name, func(t *testing.T) {
			api := newFakeAPI()
			api.err = errors.New("connection reset")
			ts := newTestToolset(t, api, "token", false)

			_, out := callTool(t, ts, "get_task", map[string]any{"task_id": id.value})
			assert.Equal(t, "Error in get_task for item 9", asObject(t, out)["error"])
		})
	}
}

func TestComments_RequireParent(t *testing.T) {
	for _, tool := range []string{"add_comment", "get_comments"} {
		t.Run(tool, func(t *testing.T) {
			api := newFakeAPI()
			ts := newTestToolset(t, api, "token", false)

			result, out := callTool(t, ts, tool, map[string]any{"content": "hi"})
			assert.True(t, result.IsError)
			obj := asObject(t, out)
			assert.Equal(t, "Error in "+tool, obj["error"])
			assert.Equal(t, missingParent, obj["details"])
			assert.Empty(t, api.Calls())
		})
	}
}

func TestAddComment(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	_, out := callTool(t, ts, "add_comment", map[string]any{
		"content":        "hi",
		"task_id":        "7",
		"attachment_url": "https://example.com/a.pdf",
	})

	args := api.Calls()[0].Args
	assert.Equal(t, "7", args["task_id"])
	assert.Equal(t, "hi", args["content"])
	assert.Equal(t, map[string]any{"file_url": "https://example.com/a.pdf", "resource_type": "file"}, args["attachment"])
	assert.Equal(t, "hi", asObject(t, out)["content"])
}

func TestCompletedByDueDate_BuildsFilterQuery(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	callTool(t, ts, "get_completed_tasks_by_due_date", map[string]any{
		"since": "2024-01-01",
		"until": "2024-01-31",
	})

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "FilterTasks", calls[0].Method)
	assert.Equal(t,
		"(due: 2024-01-01 | due after: 2024-01-01) & (due: 2024-01-31 | due before: 2024-01-31)",
		calls[0].Args["query"])
}

func TestCompletedByDueDate_AcceptsTimestamps(t *testing.T) {
	api := newFakeAPI()
	ts := newTestToolset(t, api, "token", false)

	callTool(t, ts, "get_completed_tasks_by_due_date", map[string]any{
		"since": "2024-01-01T08:00:00Z",
		"until": "2024-01-31T20:00:00Z",
	})
	assert.Contains(t, api.Calls()[0].Args["query"], "due before: 2024-01-31")
}

func TestNoCredential_EveryToolFailsWithoutBackendCalls(t *testing.T) {
	api := newFakeAPI()
	factoryCalls := 0
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			LookupEnv: func(string) (string, bool) { return "", false },
			Factory: func(context.Context, string) (todoist.API, error) {
				factoryCalls++
				return api, nil
			},
		},
	})
	require.NoError(t, err)
	defer sc.Shutdown()
	ts := NewToolset(sc)

	for _, def := range ts.definitions() {
		result, out := callTool(t, ts, def.tool.Name, map[string]any{"task_id": "1"})
		assert.True(t, result.IsError, def.tool.Name)
		obj := asObject(t, out)
		assert.Contains(t, obj["error"], "Error in "+def.tool.Name)
		assert.Equal(t, envelope.AuthGuidance(todoist.TokenEnvVar), obj["details"], def.tool.Name)
	}
	assert.Zero(t, factoryCalls)
	assert.Empty(t, api.Calls())
}

func TestAuthGuidance_NamesConfiguredTokenVariable(t *testing.T) {
	api := newFakeAPI()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			TokenEnv:  "WORK_TODOIST_TOKEN",
			LookupEnv: func(string) (string, bool) { return "", false },
			Factory: func(context.Context, string) (todoist.API, error) {
				return api, nil
			},
		},
	})
	require.NoError(t, err)
	defer sc.Shutdown()
	ts := NewToolset(sc)

	_, out := callTool(t, ts, "get_tasks", nil)
	assert.Equal(t, envelope.AuthGuidance("WORK_TODOIST_TOKEN"), asObject(t, out)["details"])

	// a token Todoist rejects later points at the same variable
	api2 := newFakeAPI()
	api2.err = &todoist.APIError{StatusCode: 401, Method: "GET", Path: "/tasks/1"}
	sc2, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			TokenEnv:  "WORK_TODOIST_TOKEN",
			LookupEnv: func(string) (string, bool) { return "revoked", true },
			Factory: func(context.Context, string) (todoist.API, error) {
				return api2, nil
			},
		},
	})
	require.NoError(t, err)
	defer sc2.Shutdown()

	_, out = callTool(t, NewToolset(sc2), "get_task", map[string]any{"task_id": "1"})
	assert.Equal(t, envelope.AuthGuidance("WORK_TODOIST_TOKEN"), asObject(t, out)["details"])
}

func TestBackendErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantDetails string
	}{
		{
			name:        "not found keeps details",
			err:         &todoist.APIError{StatusCode: 404, Method: "GET", Path: "/tasks/42", Message: "Task not found"},
			wantDetails: "Task not found",
		},
		{
			name:        "unauthorized gets guidance",
			err:         &todoist.APIError{StatusCode: 401, Method: "GET", Path: "/tasks/42"},
			wantDetails: envelope.AuthGuidance(todoist.TokenEnvVar),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.err = tt.err
			ts := newTestToolset(t, api, "token", false)

			result, out := callTool(t, ts, "get_task", map[string]any{"task_id": "42"})
			assert.True(t, result.IsError)
			obj := asObject(t, out)
			assert.Equal(t, "Error in get_task for item 42", obj["error"])
			assert.Contains(t, obj["details"], tt.wantDetails)
		})
	}
}

func TestParameterValidation(t *testing.T) {
	tests := []struct {
		tool    string
		args    map[string]any
		details string
	}{
		{tool: "get_task", args: nil, details: "task_id is required"},
		{tool: "add_task", args: map[string]any{"content": "x", "priority": float64(7)}, details: "priority must be between 1 and 4"},
		{tool: "add_task", args: map[string]any{"content": "x", "duration": float64(30)}, details: "duration and duration_unit"},
		{tool: "add_task", args: map[string]any{"content": "x", "duration": float64(30), "duration_unit": "hour"}, details: "duration_unit must be one of"},
		{tool: "add_project", args: map[string]any{"name": "x", "view_style": "grid"}, details: "view_style must be one of"},
		{tool: "get_tasks", args: map[string]any{"limit": "many"}, details: "limit must be an integer"},
		{tool: "get_tasks", args: map[string]any{"limit": 1e20}, details: "limit must be an integer"},
		{tool: "get_projects", args: map[string]any{"limit": float64(-1)}, details: "limit must not be negative"},
		{tool: "filter_tasks", args: map[string]any{"query": "  "}, details: "query is required"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.details, func(t *testing.T) {
			api := newFakeAPI()
			ts := newTestToolset(t, api, "token", false)

			result, out := callTool(t, ts, tt.tool, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, asObject(t, out)["details"], tt.details)
			assert.Empty(t, api.Calls())
		})
	}
}

func TestListTools(t *testing.T) {
	api := newFakeAPI()
	api.collaborate = []todoist.Collaborator{{ID: "u1", Name: "Ada"}}
	ts := newTestToolset(t, api, "token", false)

	_, out := callTool(t, ts, "get_projects", nil)
	require.Len(t, out, 2)
	assert.Equal(t, "Inbox", asObject(t, out.([]any)[0])["name"])

	_, out = callTool(t, ts, "get_shared_labels", map[string]any{"omit_personal": true})
	assert.Equal(t, []any{"shared-a", "shared-b"}, out)
	assert.Equal(t, todoist.Args{"omit_personal": true}, api.Calls()[1].Args)

	_, out = callTool(t, ts, "get_collaborators", map[string]any{"project_id": "p1"})
	require.Len(t, out, 1)

	_, out = callTool(t, ts, "get_labels", map[string]any{"limit": float64(5)})
	assert.Equal(t, []any{}, out)
}

func TestReadOnlyModeHidesMutatingTools(t *testing.T) {
	ts := newTestToolset(t, newFakeAPI(), "token", true)

	names := map[string]bool{}
	for _, tool := range ts.Tools() {
		names[tool.Name] = true
	}

	for _, name := range []string{"get_task", "get_tasks", "filter_tasks", "get_projects", "get_comments", "get_shared_labels"} {
		assert.True(t, names[name], name)
	}
	for _, name := range []string{"add_task", "update_task", "close_task", "delete_task", "move_task", "delete_project", "add_comment"} {
		assert.False(t, names[name], name)
	}
}

func TestDefinitions(t *testing.T) {
	ts := newTestToolset(t, newFakeAPI(), "token", false)

	seen := map[string]bool{}
	for _, def := range ts.definitions() {
		assert.False(t, seen[def.tool.Name], "duplicate tool %s", def.tool.Name)
		seen[def.tool.Name] = true
		assert.NotEmpty(t, def.resource, def.tool.Name)
		assert.NotEmpty(t, def.operation, def.tool.Name)
	}
	for name, policy := range resultPolicies {
		assert.True(t, seen[name], "policy for unknown tool %s", name)
		def := ts.definition(t, name)
		assert.True(t, def.mutates, "%s changes data", name)
		if policy.kind == needsReadBack {
			assert.NotNil(t, policy.readBack, name)
		}
	}
	assert.Len(t, seen, 37)
}

func TestRegisterTodoistTools(t *testing.T) {
	ts := newTestToolset(t, newFakeAPI(), "token", false)
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))

	require.NoError(t, RegisterTodoistTools(s, ts.sc))
	assert.Error(t, RegisterTodoistTools(s, nil))
}
