package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

func labelIDOption(desc string) mcp.ToolOption {
	return mcp.WithString("label_id", mcp.Required(), mcp.Description(desc))
}

func labelFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("color", mcp.Description("Color name, e.g. 'charcoal'")),
		mcp.WithNumber("order", mcp.Description("Position in the label list")),
		mcp.WithBoolean("is_favorite", mcp.Description("Whether the label is a favorite")),
	}
}

func labelFields(in *params.Reader) map[string]any {
	return map[string]any{
		"color":       in.String("color"),
		"order":       in.Int("order"),
		"is_favorite": in.Bool("is_favorite"),
	}
}

func labelDefinitions() []definition {
	addOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a personal label"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Label name")),
	}
	addOpts = append(addOpts, labelFieldOptions()...)

	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Update a personal label. Only the given fields change."),
		labelIDOption("The ID of the label to update"),
		mcp.WithString("name", mcp.Description("New label name")),
	}
	updateOpts = append(updateOpts, labelFieldOptions()...)

	return []definition{
		{
			tool:      mcp.NewTool("add_label", addOpts...),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       addLabel,
		},
		{
			tool: mcp.NewTool("get_label",
				mcp.WithDescription("Get a personal label by ID"),
				mcp.WithReadOnlyHintAnnotation(true),
				labelIDOption("The ID of the label"),
			),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationGet,
			run:       getLabel,
		},
		{
			tool: mcp.NewTool("get_labels",
				mcp.WithDescription("List all personal labels"),
				mcp.WithReadOnlyHintAnnotation(true),
				withLimit(),
			),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationList,
			run:       getLabels,
		},
		{
			tool:      mcp.NewTool("update_label", updateOpts...),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationUpdate,
			mutates:   true,
			run:       updateLabel,
		},
		{
			tool: mcp.NewTool("delete_label",
				mcp.WithDescription("Delete a personal label and remove it from all tasks"),
				mcp.WithDestructiveHintAnnotation(true),
				labelIDOption("The ID of the label to delete"),
			),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationDelete,
			mutates:   true,
			run:       deleteLabel,
		},
		{
			tool: mcp.NewTool("get_shared_labels",
				mcp.WithDescription("List the names of labels used on tasks shared with you"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithBoolean("omit_personal", mcp.Description("Leave out names that also exist as personal labels")),
				withLimit(),
			),
			resource:  instrumentation.ResourceLabels,
			operation: instrumentation.OperationList,
			run:       getSharedLabels,
		},
	}
}

func addLabel(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := labelFields(in)
	fields["name"] = in.RequiredString("name")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.AddLabel(ctx, backendArgs(fields))
}

func getLabel(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("label_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.GetLabel(ctx, id)
}

func getLabels(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetLabels(ctx), limit)
}

func updateLabel(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("label_id")
	fields := labelFields(in)
	fields["name"] = in.String("name")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.UpdateLabel(ctx, id, backendArgs(fields))
}

func deleteLabel(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("label_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.DeleteLabel(ctx, id)
}

func getSharedLabels(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{"omit_personal": in.Bool("omit_personal")}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetSharedLabels(ctx, backendArgs(fields)), limit)
}
