package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

const labelsPath = "/labels"

// AddLabel creates a personal label
func (cl *Client) AddLabel(ctx context.Context, args Args) (*Label, error) {
	var label Label
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      labelsPath,
		body:      args,
	}, &label)
	if err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return &label, nil
}

// GetLabel retrieves a personal label by ID
func (cl *Client) GetLabel(ctx context.Context, id string) (*Label, error) {
	var label Label
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      itemPath(labelsPath, id),
	}, &label)
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	return &label, nil
}

// GetLabels lists all personal labels
func (cl *Client) GetLabels(ctx context.Context) Pager[Label] {
	return paginate[Label](ctx, cl, instrumentation.ResourceLabels, instrumentation.OperationList, labelsPath, nil)
}

// UpdateLabel updates the fields present in args
func (cl *Client) UpdateLabel(ctx context.Context, id string, args Args) (*Label, error) {
	var label Label
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      itemPath(labelsPath, id),
		body:      args,
	}, &label)
	if err != nil {
		return nil, fmt.Errorf("failed to update label: %w", err)
	}
	return &label, nil
}

// DeleteLabel deletes a personal label
func (cl *Client) DeleteLabel(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(labelsPath, id),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete label: %w", err)
	}
	return ok, nil
}

// GetSharedLabels lists the names of labels used on shared tasks.
// Args "omit_personal" excludes names that also exist as personal labels.
func (cl *Client) GetSharedLabels(ctx context.Context, args Args) Pager[string] {
	return paginate[string](ctx, cl, instrumentation.ResourceLabels, instrumentation.OperationList, labelsPath+"/shared", args)
}
