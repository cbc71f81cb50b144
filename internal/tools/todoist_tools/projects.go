package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

var viewStyles = []string{"list", "board", "calendar"}

func projectIDOption(desc string) mcp.ToolOption {
	return mcp.WithString("project_id", mcp.Required(), mcp.Description(desc))
}

func projectFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("color", mcp.Description("Color name, e.g. 'berry_red'")),
		mcp.WithBoolean("is_favorite", mcp.Description("Whether the project is a favorite")),
		mcp.WithString("view_style", mcp.Enum(viewStyles...), mcp.Description("How the project is displayed")),
	}
}

func projectFields(in *params.Reader) map[string]any {
	return map[string]any{
		"color":       in.String("color"),
		"is_favorite": in.Bool("is_favorite"),
		"view_style":  in.Enum("view_style", viewStyles...),
	}
}

// projectStatus builds a definition for a project operation that returns a
// bare success signal.
func projectStatus(name, desc, op string, destructive bool, call func(todoist.API, context.Context, string) (bool, error)) definition {
	opts := []mcp.ToolOption{
		mcp.WithDescription(desc),
		projectIDOption("The ID of the project"),
	}
	if destructive {
		opts = append(opts, mcp.WithDestructiveHintAnnotation(true))
	}
	return definition{
		tool:      mcp.NewTool(name, opts...),
		resource:  instrumentation.ResourceProjects,
		operation: op,
		mutates:   true,
		run: func(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
			id := in.RequiredString("project_id")
			if err := checked(in); err != nil {
				return nil, err
			}
			return call(api, ctx, id)
		},
	}
}

func projectDefinitions() []definition {
	addOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a new project"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("parent_id", mcp.Description("Parent project, making this a sub-project")),
		mcp.WithString("description", mcp.Description("Project description")),
	}
	addOpts = append(addOpts, projectFieldOptions()...)

	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Update a project. Only the given fields change."),
		projectIDOption("The ID of the project to update"),
		mcp.WithString("name", mcp.Description("New project name")),
		mcp.WithString("description", mcp.Description("New project description")),
	}
	updateOpts = append(updateOpts, projectFieldOptions()...)

	return []definition{
		{
			tool:      mcp.NewTool("add_project", addOpts...),
			resource:  instrumentation.ResourceProjects,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       addProject,
		},
		{
			tool: mcp.NewTool("get_project",
				mcp.WithDescription("Get a project by ID"),
				mcp.WithReadOnlyHintAnnotation(true),
				projectIDOption("The ID of the project"),
			),
			resource:  instrumentation.ResourceProjects,
			operation: instrumentation.OperationGet,
			run:       getProject,
		},
		{
			tool: mcp.NewTool("get_projects",
				mcp.WithDescription("List all active projects"),
				mcp.WithReadOnlyHintAnnotation(true),
				withLimit(),
			),
			resource:  instrumentation.ResourceProjects,
			operation: instrumentation.OperationList,
			run:       getProjects,
		},
		{
			tool:      mcp.NewTool("update_project", updateOpts...),
			resource:  instrumentation.ResourceProjects,
			operation: instrumentation.OperationUpdate,
			mutates:   true,
			run:       updateProject,
		},
		projectStatus("delete_project", "Delete a project with all its sections and tasks",
			instrumentation.OperationDelete, true, todoist.API.DeleteProject),
		projectStatus("archive_project", "Archive a project",
			instrumentation.OperationArchive, false, todoist.API.ArchiveProject),
		projectStatus("unarchive_project", "Restore an archived project",
			instrumentation.OperationUnarchive, false, todoist.API.UnarchiveProject),
		{
			tool: mcp.NewTool("get_collaborators",
				mcp.WithDescription("List the users a shared project is shared with"),
				mcp.WithReadOnlyHintAnnotation(true),
				projectIDOption("The ID of the shared project"),
				withLimit(),
			),
			resource:  instrumentation.ResourceProjects,
			operation: instrumentation.OperationList,
			run:       getCollaborators,
		},
	}
}

func addProject(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := projectFields(in)
	fields["name"] = in.RequiredString("name")
	fields["parent_id"] = in.String("parent_id")
	fields["description"] = in.String("description")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.AddProject(ctx, backendArgs(fields))
}

func getProject(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("project_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.GetProject(ctx, id)
}

func getProjects(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetProjects(ctx, nil), limit)
}

func updateProject(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("project_id")
	fields := projectFields(in)
	fields["name"] = in.String("name")
	fields["description"] = in.String("description")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.UpdateProject(ctx, id, backendArgs(fields))
}

func getCollaborators(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("project_id")
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetCollaborators(ctx, id), limit)
}
