package todoist_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

const missingParent = "either project_id or task_id is required"

func commentIDOption(desc string) mcp.ToolOption {
	return mcp.WithString("comment_id", mcp.Required(), mcp.Description(desc))
}

// commentParent reads the task or project a comment belongs to. Exactly
// one of them must be given.
func commentParent(in *params.Reader) (map[string]any, error) {
	taskID := in.String("task_id")
	projectID := in.String("project_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	t, hasTask := taskID.Get()
	p, hasProject := projectID.Get()
	hasTask = hasTask && t != ""
	hasProject = hasProject && p != ""
	switch {
	case !hasTask && !hasProject:
		return nil, precondition(missingParent)
	case hasTask && hasProject:
		return nil, precondition("only one of project_id or task_id may be given")
	case hasTask:
		return map[string]any{"task_id": t}, nil
	default:
		return map[string]any{"project_id": p}, nil
	}
}

func commentDefinitions() []definition {
	return []definition{
		{
			tool: mcp.NewTool("add_comment",
				mcp.WithDescription("Add a comment to a task or a project. Give exactly one of task_id or project_id."),
				mcp.WithString("content", mcp.Required(), mcp.Description("Comment text (markdown)")),
				mcp.WithString("task_id", mcp.Description("Task to comment on")),
				mcp.WithString("project_id", mcp.Description("Project to comment on")),
				mcp.WithString("attachment_url", mcp.Description("URL of a file to attach")),
				mcp.WithString("attachment_name", mcp.Description("File name of the attachment")),
				mcp.WithString("attachment_type", mcp.Description("MIME type of the attachment")),
			),
			resource:  instrumentation.ResourceComments,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       addComment,
		},
		{
			tool: mcp.NewTool("get_comment",
				mcp.WithDescription("Get a comment by ID"),
				mcp.WithReadOnlyHintAnnotation(true),
				commentIDOption("The ID of the comment"),
			),
			resource:  instrumentation.ResourceComments,
			operation: instrumentation.OperationGet,
			run:       getComment,
		},
		{
			tool: mcp.NewTool("get_comments",
				mcp.WithDescription("List the comments of a task or a project. Give exactly one of task_id or project_id."),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("task_id", mcp.Description("Task whose comments to list")),
				mcp.WithString("project_id", mcp.Description("Project whose comments to list")),
				withLimit(),
			),
			resource:  instrumentation.ResourceComments,
			operation: instrumentation.OperationList,
			run:       getComments,
		},
		{
			tool: mcp.NewTool("update_comment",
				mcp.WithDescription("Replace the text of a comment"),
				commentIDOption("The ID of the comment to update"),
				mcp.WithString("content", mcp.Required(), mcp.Description("New comment text")),
			),
			resource:  instrumentation.ResourceComments,
			operation: instrumentation.OperationUpdate,
			mutates:   true,
			run:       updateComment,
		},
		{
			tool: mcp.NewTool("delete_comment",
				mcp.WithDescription("Delete a comment"),
				mcp.WithDestructiveHintAnnotation(true),
				commentIDOption("The ID of the comment to delete"),
			),
			resource:  instrumentation.ResourceComments,
			operation: instrumentation.OperationDelete,
			mutates:   true,
			run:       deleteComment,
		},
	}
}

func addComment(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields, err := commentParent(in)
	if err != nil {
		return nil, err
	}
	fields["content"] = in.RequiredString("content")

	attachmentURL := in.String("attachment_url")
	if url, ok := attachmentURL.Get(); ok && url != "" {
		fields["attachment"] = params.Normalize(map[string]any{
			"file_url":      url,
			"file_name":     in.String("attachment_name"),
			"file_type":     in.String("attachment_type"),
			"resource_type": "file",
		})
	}
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.AddComment(ctx, backendArgs(fields))
}

func getComment(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("comment_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.GetComment(ctx, id)
}

func getComments(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields, err := commentParent(in)
	if err != nil {
		return nil, err
	}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetComments(ctx, backendArgs(fields)), limit)
}

func updateComment(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("comment_id")
	fields := map[string]any{"content": in.RequiredString("content")}
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.UpdateComment(ctx, id, backendArgs(fields))
}

func deleteComment(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("comment_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.DeleteComment(ctx, id)
}
