package todoist_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

const limitDescription = "Maximum number of results to return. All pages are fetched before the result is trimmed, so this does not reduce requests to Todoist."

func withLimit() mcp.ToolOption {
	return mcp.WithNumber("limit", mcp.Description(limitDescription))
}

// taskFieldOptions are the editable task fields shared by add_task and
// update_task.
func taskFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Task description (markdown)")),
		mcp.WithArray("labels", mcp.WithStringItems(), mcp.Description("Label names. An empty list removes all labels.")),
		mcp.WithNumber("priority", mcp.Description("Priority from 1 (normal) to 4 (urgent)")),
		mcp.WithString("due_string", mcp.Description("Natural language due date such as 'tomorrow at 5pm' or 'every monday'")),
		mcp.WithString("due_lang", mcp.Description("Language of due_string (e.g. 'en')")),
		mcp.WithString("due_date", mcp.Description("Due date in YYYY-MM-DD format")),
		mcp.WithString("due_datetime", mcp.Description("Due date and time in RFC3339 format")),
		mcp.WithString("assignee_id", mcp.Description("ID of the user the task is assigned to (shared projects)")),
		mcp.WithNumber("duration", mcp.Description("Duration amount; requires duration_unit")),
		mcp.WithString("duration_unit", mcp.Enum("minute", "day"), mcp.Description("Unit of duration")),
		mcp.WithString("deadline_date", mcp.Description("Deadline in YYYY-MM-DD format")),
		mcp.WithString("deadline_lang", mcp.Description("Language of the deadline")),
	}
}

func taskFields(in *params.Reader) map[string]any {
	return map[string]any{
		"description":   in.String("description"),
		"labels":        in.StringList("labels"),
		"priority":      in.Int("priority"),
		"due_string":    in.String("due_string"),
		"due_lang":      in.String("due_lang"),
		"due_date":      in.String("due_date"),
		"due_datetime":  in.String("due_datetime"),
		"assignee_id":   in.String("assignee_id"),
		"duration":      in.Int("duration"),
		"duration_unit": in.Enum("duration_unit", "minute", "day"),
		"deadline_date": in.String("deadline_date"),
		"deadline_lang": in.String("deadline_lang"),
	}
}

// checkTaskFields validates task fields Todoist would reject less clearly.
func checkTaskFields(in *params.Reader, fields map[string]any) error {
	if err := checked(in); err != nil {
		return err
	}
	if p, ok := fields["priority"].(params.Optional[int]).Get(); ok && (p < 1 || p > 4) {
		return precondition("priority must be between 1 and 4, got %d", p)
	}
	_, hasAmount := fields["duration"].(params.Optional[int]).Get()
	_, hasUnit := fields["duration_unit"].(params.Optional[string]).Get()
	if hasAmount != hasUnit {
		return precondition("duration and duration_unit must be given together")
	}
	return nil
}

func taskIDOption(desc string) mcp.ToolOption {
	return mcp.WithString("task_id", mcp.Required(), mcp.Description(desc))
}

func taskDefinitions() []definition {
	addOpts := []mcp.ToolOption{
		mcp.WithDescription("Create a new task"),
		mcp.WithString("content", mcp.Required(), mcp.Description("Task title (markdown)")),
		mcp.WithString("project_id", mcp.Description("Project to add the task to (default: Inbox)")),
		mcp.WithString("section_id", mcp.Description("Section to add the task to")),
		mcp.WithString("parent_id", mcp.Description("Parent task, making this a subtask")),
		mcp.WithNumber("order", mcp.Description("Position among siblings")),
	}
	addOpts = append(addOpts, taskFieldOptions()...)

	updateOpts := []mcp.ToolOption{
		mcp.WithDescription("Update a task and return its current state. Only the given fields change."),
		taskIDOption("The ID of the task to update"),
		mcp.WithString("content", mcp.Description("New task title")),
	}
	updateOpts = append(updateOpts, taskFieldOptions()...)

	closeTool := func(name, desc string) definition {
		return definition{
			tool: mcp.NewTool(name,
				mcp.WithDescription(desc),
				taskIDOption("The ID of the task to complete"),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationClose,
			mutates:   true,
			run:       closeTask,
		}
	}

	return []definition{
		{
			tool:      mcp.NewTool("add_task", addOpts...),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       addTask,
		},
		{
			tool: mcp.NewTool("quick_add_task",
				mcp.WithDescription("Create a task from natural language, parsed like the Todoist quick add box (dates, #project, @label, p1-p4)"),
				mcp.WithString("text", mcp.Required(), mcp.Description("Quick add text, e.g. 'Call mom tomorrow 5pm #Family p2'")),
				mcp.WithString("note", mcp.Description("Comment to attach to the new task")),
				mcp.WithString("reminder", mcp.Description("Reminder in natural language")),
				mcp.WithBoolean("auto_reminder", mcp.Description("Add the default reminder when the task has a due time")),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationCreate,
			mutates:   true,
			run:       quickAddTask,
		},
		{
			tool: mcp.NewTool("get_task",
				mcp.WithDescription("Get an active task by ID"),
				mcp.WithReadOnlyHintAnnotation(true),
				taskIDOption("The ID of the task"),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationGet,
			run:       getTask,
		},
		{
			tool: mcp.NewTool("get_tasks",
				mcp.WithDescription("List active tasks, optionally narrowed to a project, section, parent task, label or set of IDs"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("project_id", mcp.Description("Only tasks in this project")),
				mcp.WithString("section_id", mcp.Description("Only tasks in this section")),
				mcp.WithString("parent_id", mcp.Description("Only subtasks of this task")),
				mcp.WithString("label", mcp.Description("Only tasks with this label name")),
				mcp.WithArray("ids", mcp.WithStringItems(), mcp.Description("Only tasks with these IDs")),
				withLimit(),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationList,
			run:       getTasks,
		},
		{
			tool: mcp.NewTool("filter_tasks",
				mcp.WithDescription("List active tasks matching a Todoist filter query such as 'today | overdue' or '#Work & p1'"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("query", mcp.Required(), mcp.Description("Todoist filter query")),
				mcp.WithString("lang", mcp.Description("Language of the query (default: en)")),
				withLimit(),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationFilter,
			run:       filterTasks,
		},
		{
			tool:      mcp.NewTool("update_task", updateOpts...),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationUpdate,
			mutates:   true,
			run:       updateTask,
		},
		closeTool("close_task", "Complete a task. Recurring tasks move to their next occurrence."),
		closeTool("complete_task", "Mark a task as completed (same as close_task)"),
		{
			tool: mcp.NewTool("reopen_task",
				mcp.WithDescription("Reopen a completed task"),
				taskIDOption("The ID of the task to reopen"),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationReopen,
			mutates:   true,
			run:       reopenTask,
		},
		{
			tool: mcp.NewTool("delete_task",
				mcp.WithDescription("Delete a task and all of its subtasks"),
				mcp.WithDestructiveHintAnnotation(true),
				taskIDOption("The ID of the task to delete"),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationDelete,
			mutates:   true,
			run:       deleteTask,
		},
		{
			tool: mcp.NewTool("move_task",
				mcp.WithDescription("Move a task to another project, section or parent task and return its current state. Give exactly one destination."),
				taskIDOption("The ID of the task to move"),
				mcp.WithString("project_id", mcp.Description("Destination project")),
				mcp.WithString("section_id", mcp.Description("Destination section")),
				mcp.WithString("parent_id", mcp.Description("Destination parent task")),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationMove,
			mutates:   true,
			run:       moveTask,
		},
		{
			tool: mcp.NewTool("get_completed_tasks_by_due_date",
				mcp.WithDescription("List tasks due within a date range, using a Todoist filter query"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("since", mcp.Required(), mcp.Description("Start of the range (YYYY-MM-DD or RFC3339)")),
				mcp.WithString("until", mcp.Required(), mcp.Description("End of the range (YYYY-MM-DD or RFC3339)")),
				withLimit(),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationFilter,
			run:       completedByDueDate,
		},
		{
			tool: mcp.NewTool("get_completed_tasks_by_completion_date",
				mcp.WithDescription("List tasks completed within a time range"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("since", mcp.Required(), mcp.Description("Start of the range (RFC3339)")),
				mcp.WithString("until", mcp.Required(), mcp.Description("End of the range (RFC3339)")),
				mcp.WithString("workspace_id", mcp.Description("Only tasks from this workspace")),
				mcp.WithString("filter_query", mcp.Description("Additional Todoist filter query")),
				mcp.WithString("filter_lang", mcp.Description("Language of filter_query")),
				withLimit(),
			),
			resource:  instrumentation.ResourceTasks,
			operation: instrumentation.OperationList,
			run:       completedByCompletionDate,
		},
	}
}

func addTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := taskFields(in)
	fields["content"] = in.RequiredString("content")
	fields["project_id"] = in.String("project_id")
	fields["section_id"] = in.String("section_id")
	fields["parent_id"] = in.String("parent_id")
	fields["order"] = in.Int("order")
	if err := checkTaskFields(in, fields); err != nil {
		return nil, err
	}
	return api.AddTask(ctx, backendArgs(fields))
}

func quickAddTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{
		"text":          in.RequiredString("text"),
		"note":          in.String("note"),
		"reminder":      in.String("reminder"),
		"auto_reminder": in.Bool("auto_reminder"),
	}
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.QuickAddTask(ctx, backendArgs(fields))
}

func getTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.GetTask(ctx, id)
}

func getTasks(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{
		"project_id": in.String("project_id"),
		"section_id": in.String("section_id"),
		"parent_id":  in.String("parent_id"),
		"label":      in.String("label"),
		"ids":        in.StringList("ids"),
	}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetTasks(ctx, backendArgs(fields)), limit)
}

func filterTasks(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{
		"query": in.RequiredString("query"),
		"lang":  in.String("lang"),
	}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.FilterTasks(ctx, backendArgs(fields)), limit)
}

func updateTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	fields := taskFields(in)
	fields["content"] = in.String("content")
	if err := checkTaskFields(in, fields); err != nil {
		return nil, err
	}
	return api.UpdateTask(ctx, id, backendArgs(fields))
}

func closeTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.CloseTask(ctx, id)
}

func reopenTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.ReopenTask(ctx, id)
}

func deleteTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	if err := checked(in); err != nil {
		return nil, err
	}
	return api.DeleteTask(ctx, id)
}

func moveTask(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	id := in.RequiredString("task_id")
	fields := map[string]any{
		"project_id": in.String("project_id"),
		"section_id": in.String("section_id"),
		"parent_id":  in.String("parent_id"),
	}
	if err := checked(in); err != nil {
		return nil, err
	}
	args := backendArgs(fields)
	if len(args) != 1 {
		return nil, precondition("exactly one of project_id, section_id or parent_id is required")
	}
	return api.MoveTask(ctx, id, args)
}

// dueRangeQuery is a filter matching tasks due between since and until,
// both inclusive.
func dueRangeQuery(since, until string) string {
	return fmt.Sprintf("(due: %s | due after: %s) & (due: %s | due before: %s)", since, since, until, until)
}

func completedByDueDate(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := params.Normalize(map[string]any{
		"since": in.RequiredString("since"),
		"until": in.RequiredString("until"),
	})
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	query := dueRangeQuery(params.DateText(fields["since"]), params.DateText(fields["until"]))
	return list(ctx, api.FilterTasks(ctx, todoist.Args{"query": query}), limit)
}

func completedByCompletionDate(ctx context.Context, api todoist.API, in *params.Reader) (any, error) {
	fields := map[string]any{
		"since":        in.RequiredString("since"),
		"until":        in.RequiredString("until"),
		"workspace_id": in.String("workspace_id"),
		"filter_query": in.String("filter_query"),
		"filter_lang":  in.String("filter_lang"),
	}
	limit := in.Limit()
	if err := checked(in); err != nil {
		return nil, err
	}
	return list(ctx, api.GetCompletedTasksByCompletionDate(ctx, backendArgs(fields)), limit)
}
