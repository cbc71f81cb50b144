package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

const tasksPath = "/tasks"

// AddTask creates a task from args (content is required by Todoist)
func (cl *Client) AddTask(ctx context.Context, args Args) (*Task, error) {
	var task Task
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      tasksPath,
		body:      args,
	}, &task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// QuickAddTask creates a task from natural-language text, the way the
// Todoist quick-add box parses it (dates, #project, @label, p1..p4).
func (cl *Client) QuickAddTask(ctx context.Context, args Args) (*Task, error) {
	var task Task
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      tasksPath + "/quick",
		body:      args,
	}, &task)
	if err != nil {
		return nil, fmt.Errorf("failed to quick add task: %w", err)
	}
	return &task, nil
}

// GetTask retrieves a single active task
func (cl *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      itemPath(tasksPath, id),
	}, &task)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// GetTasks lists active tasks, optionally narrowed by project_id,
// section_id, parent_id, label or ids.
func (cl *Client) GetTasks(ctx context.Context, args Args) Pager[Task] {
	return paginate[Task](ctx, cl, instrumentation.ResourceTasks, instrumentation.OperationList, tasksPath, args)
}

// FilterTasks lists active tasks matching a Todoist filter query (args "query")
func (cl *Client) FilterTasks(ctx context.Context, args Args) Pager[Task] {
	return paginate[Task](ctx, cl, instrumentation.ResourceTasks, instrumentation.OperationFilter, tasksPath+"/filter", args)
}

// UpdateTask updates the fields present in args
func (cl *Client) UpdateTask(ctx context.Context, id string, args Args) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      itemPath(tasksPath, id),
		body:      args,
	})
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	return ok, nil
}

// MoveTask moves a task to the project_id, section_id or parent_id in args
func (cl *Client) MoveTask(ctx context.Context, id string, args Args) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationMove,
		method:    http.MethodPost,
		path:      itemPath(tasksPath, id, "move"),
		body:      args,
	})
	if err != nil {
		return false, fmt.Errorf("failed to move task: %w", err)
	}
	return ok, nil
}

// CloseTask completes a task
func (cl *Client) CloseTask(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationClose,
		method:    http.MethodPost,
		path:      itemPath(tasksPath, id, "close"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to close task: %w", err)
	}
	return ok, nil
}

// ReopenTask reopens a completed task
func (cl *Client) ReopenTask(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationReopen,
		method:    http.MethodPost,
		path:      itemPath(tasksPath, id, "reopen"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to reopen task: %w", err)
	}
	return ok, nil
}

// DeleteTask deletes a task and its subtasks
func (cl *Client) DeleteTask(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(tasksPath, id),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return ok, nil
}

// GetCompletedTasksByCompletionDate lists tasks completed between args
// "since" and "until".
func (cl *Client) GetCompletedTasksByCompletionDate(ctx context.Context, args Args) Pager[Task] {
	return paginate[Task](ctx, cl, instrumentation.ResourceTasks, instrumentation.OperationList,
		tasksPath+"/completed/by_completion_date", args)
}
