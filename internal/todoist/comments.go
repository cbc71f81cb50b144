package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

const commentsPath = "/comments"

// AddComment adds a comment to the task_id or project_id in args
func (cl *Client) AddComment(ctx context.Context, args Args) (*Comment, error) {
	var comment Comment
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceComments,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      commentsPath,
		body:      args,
	}, &comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// GetComment retrieves a comment by ID
func (cl *Client) GetComment(ctx context.Context, id string) (*Comment, error) {
	var comment Comment
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceComments,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      itemPath(commentsPath, id),
	}, &comment)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// GetComments lists the comments of the task_id or project_id in args
func (cl *Client) GetComments(ctx context.Context, args Args) Pager[Comment] {
	return paginate[Comment](ctx, cl, instrumentation.ResourceComments, instrumentation.OperationList, commentsPath, args)
}

// UpdateComment replaces a comment's content
func (cl *Client) UpdateComment(ctx context.Context, id string, args Args) (*Comment, error) {
	var comment Comment
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceComments,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      itemPath(commentsPath, id),
		body:      args,
	}, &comment)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment deletes a comment
func (cl *Client) DeleteComment(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceComments,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(commentsPath, id),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete comment: %w", err)
	}
	return ok, nil
}
