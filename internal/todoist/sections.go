package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

const sectionsPath = "/sections"

// AddSection creates a section in args "project_id"
func (cl *Client) AddSection(ctx context.Context, args Args) (*Section, error) {
	var section Section
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      sectionsPath,
		body:      args,
	}, &section)
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return &section, nil
}

// GetSection retrieves a section by ID
func (cl *Client) GetSection(ctx context.Context, id string) (*Section, error) {
	var section Section
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      itemPath(sectionsPath, id),
	}, &section)
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &section, nil
}

// GetSections lists sections, optionally of one project
func (cl *Client) GetSections(ctx context.Context, args Args) Pager[Section] {
	return paginate[Section](ctx, cl, instrumentation.ResourceSections, instrumentation.OperationList, sectionsPath, args)
}

// UpdateSection renames a section
func (cl *Client) UpdateSection(ctx context.Context, id string, args Args) (*Section, error) {
	var section Section
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      itemPath(sectionsPath, id),
		body:      args,
	}, &section)
	if err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return &section, nil
}

// DeleteSection deletes a section and its tasks
func (cl *Client) DeleteSection(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(sectionsPath, id),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete section: %w", err)
	}
	return ok, nil
}
