package resources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/envelope"
	"github.com/teemow/todoist-mcp/internal/tools/paging"
)

const mimeJSON = "application/json"

// AgendaQuery is the Todoist filter behind the agenda resource.
const AgendaQuery = "today | overdue"

type resource struct {
	uri         string
	name        string
	description string
	read        func(ctx context.Context, api todoist.API) (any, error)
}

func definitions() []resource {
	return []resource{
		{
			uri:         "todoist://projects",
			name:        "Todoist Projects",
			description: "All active projects of the Todoist account",
			read: func(ctx context.Context, api todoist.API) (any, error) {
				return paging.Flatten(ctx, api.GetProjects(ctx, nil))
			},
		},
		{
			uri:         "todoist://labels",
			name:        "Todoist Labels",
			description: "All personal labels of the Todoist account",
			read: func(ctx context.Context, api todoist.API) (any, error) {
				return paging.Flatten(ctx, api.GetLabels(ctx))
			},
		},
		{
			uri:         "todoist://agenda",
			name:        "Todoist Agenda",
			description: "Open tasks due today or overdue",
			read: func(ctx context.Context, api todoist.API) (any, error) {
				return paging.Flatten(ctx, api.FilterTasks(ctx, todoist.Args{"query": AgendaQuery}))
			},
		},
	}
}

// RegisterTodoistResources registers the Todoist resources on s.
func RegisterTodoistResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	for _, r := range definitions() {
		res := mcp.NewResource(r.uri, r.name,
			mcp.WithResourceDescription(r.description),
			mcp.WithMIMEType(mimeJSON),
		)
		s.AddResource(res, handler(r, sc))
	}
	return nil
}

// handler reads r through the shared client. Failures are reported as
// protocol errors carrying the same details a tool error envelope would.
func handler(r resource, sc *server.ServerContext) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		api, err := sc.Client(ctx)
		if err == nil {
			var data any
			data, err = r.read(ctx, api)
			if err == nil {
				return []mcp.ResourceContents{
					&mcp.TextResourceContents{
						URI:      request.Params.URI,
						MIMEType: mimeJSON,
						Text:     envelope.Serialize(data),
					},
				}, nil
			}
		}

		env := envelope.Classifier{TokenEnv: sc.TokenEnv()}.Classify(err, "read "+r.uri, "")
		slog.Debug("resource read failed", "uri", r.uri, logging.Err(err))
		return nil, fmt.Errorf("%s: %s", env.Error, env.Details)
	}
}
