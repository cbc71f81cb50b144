package resources

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/envelope"
)

// stubAPI serves the three listings the resources read; any other method
// panics through the nil embedded interface.
type stubAPI struct {
	todoist.API
	projects []todoist.Project
	labels   []todoist.Label
	tasks    []todoist.Task
	query    string
	err      error
}

func pages[T any](err error, items ...T) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		if err != nil {
			yield(nil, err)
			return
		}
		yield(items, nil)
	}
}

func (s *stubAPI) GetProjects(context.Context, todoist.Args) todoist.Pager[todoist.Project] {
	return pages(s.err, s.projects...)
}

func (s *stubAPI) GetLabels(context.Context) todoist.Pager[todoist.Label] {
	return pages(s.err, s.labels...)
}

func (s *stubAPI) FilterTasks(_ context.Context, args todoist.Args) todoist.Pager[todoist.Task] {
	s.query, _ = args["query"].(string)
	return pages(s.err, s.tasks...)
}

func newServerContext(t *testing.T, token string, api todoist.API) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			LookupEnv: func(string) (string, bool) { return token, token != "" },
			Factory: func(context.Context, string) (todoist.API, error) {
				return api, nil
			},
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func definitionFor(t *testing.T, uri string) resource {
	t.Helper()
	for _, r := range definitions() {
		if r.uri == uri {
			return r
		}
	}
	t.Fatalf("no resource %s", uri)
	return resource{}
}

func read(t *testing.T, sc *server.ServerContext, uri string) ([]mcp.ResourceContents, error) {
	t.Helper()
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return handler(definitionFor(t, uri), sc)(context.Background(), req)
}

func TestProjectsResource(t *testing.T) {
	api := &stubAPI{projects: []todoist.Project{{ID: "1", Name: "Inbox"}, {ID: "2", Name: "Work"}}}
	sc := newServerContext(t, "tok", api)

	contents, err := read(t, sc, "todoist://projects")
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "todoist://projects", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Work", got[1]["name"])
}

func TestLabelsResource_Empty(t *testing.T) {
	sc := newServerContext(t, "tok", &stubAPI{})

	contents, err := read(t, sc, "todoist://labels")
	require.NoError(t, err)

	text := contents[0].(*mcp.TextResourceContents)
	assert.Equal(t, "[]", text.Text)
}

func TestAgendaResource_UsesFilter(t *testing.T) {
	api := &stubAPI{tasks: []todoist.Task{{ID: "7", Content: "Pay rent"}}}
	sc := newServerContext(t, "tok", api)

	contents, err := read(t, sc, "todoist://agenda")
	require.NoError(t, err)
	assert.Equal(t, AgendaQuery, api.query)
	assert.Contains(t, contents[0].(*mcp.TextResourceContents).Text, "Pay rent")
}

func TestResource_MissingToken(t *testing.T) {
	sc := newServerContext(t, "", &stubAPI{})

	_, err := read(t, sc, "todoist://projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), envelope.AuthGuidance(todoist.TokenEnvVar))
}

func TestResource_BackendError(t *testing.T) {
	sc := newServerContext(t, "tok", &stubAPI{err: errors.New("connection reset")})

	_, err := read(t, sc, "todoist://labels")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error in read todoist://labels")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRegisterTodoistResources(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(false, false))
	require.NoError(t, RegisterTodoistResources(s, newServerContext(t, "", &stubAPI{})))

	assert.Error(t, RegisterTodoistResources(s, nil))
}
