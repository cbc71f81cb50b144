package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

func sectionIDOption(desc string) mcp.ToolOption {
	return mcp.WithString("section_id", mcp.Required(), mcp.Description(desc))
}

func sectionDefinitions() []definition {
	return []definition{
		{
			tool: mcp.NewTool("add_section",
				mcp.WithDescription("Create a section in a project"),
				mcp.WithString("name", mcp.Required(), mcp.Description("Section name")),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("Project the section belongs to")),
				mcp.WithNumber("order", mcp.Description("Position among the project's sections")),
			),
			resource:  instrumentation.ResourceSections,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       addSection,
		},
		{
			tool: mcp.NewTool("get_section",
				mcp.WithDescription("Get a section by ID"),
				mcp.WithReadOnlyHintAnnotation(true),
				sectionIDOption("The ID of the section"),
			),
			resource:  instrumentation.ResourceSections,
			operation: instrumentation.OperationGet,
			run:       getSection,
		},
		{
			tool: mcp.NewTool("get_sections",
				mcp.WithDescription("List sections, optionally only those of one project"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("project_id", mcp.Description("Only sections of this project")),
				withLimit(),
			),
			resource:  instrumentation.ResourceSections,
			operation: instrumentation.OperationList,
			run:       getSections,
		},
		{
			tool: mcp.NewTool("update_section",
				mcp.WithDescription("Rename a section"),
				sectionIDOption("The ID of the section to update"),
				mcp.WithString("name", mcp.Required(), mcp.Description("New section name")),
			),
			resource:  instrumentation.ResourceSections,
			operation: instrumentation.OperationUpdate,
			mutates:   true,
			run:       updateSection,
		},
		{
			tool: mcp.NewTool("delete_section",
				mcp.WithDescription("Delete a section and all of its tasks"),
				mcp.WithDestructiveHintAnnotation(true),
				sectionIDOption("The ID of the section to delete"),
			),
			resource:  instrumentation.ResourceSections,
			operation: instrumentation.OperationDelete,
			mutates:   true,
			run:       deleteSection,
		},
	}
}

func addSection(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{
		"name":       in.RequiredString("name"),
		"project_id": in.RequiredString("project_id"),
		"order":      in.Int("order"),
	}
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.AddSection(ctx, backendArgs(fields))
}

func getSection(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("section_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.GetSection(ctx, id)
}

func getSections(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{"project_id": in.String("project_id")}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetSections(ctx, backendArgs(fields)), limit)
}

func updateSection(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("section_id")
	fields := map[string]any{"name": in.RequiredString("name")}
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.UpdateSection(ctx, id, backendArgs(fields))
}

func deleteSection(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("section_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.DeleteSection(ctx, id)
}
