package todoist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

const projectsPath = "/projects"

// AddProject creates a project
func (cl *Client) AddProject(ctx context.Context, args Args) (*Project, error) {
	var project Project
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      projectsPath,
		body:      args,
	}, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// GetProject retrieves a project by ID
func (cl *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      itemPath(projectsPath, id),
	}, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// GetProjects lists all active projects
func (cl *Client) GetProjects(ctx context.Context, args Args) Pager[Project] {
	return paginate[Project](ctx, cl, instrumentation.ResourceProjects, instrumentation.OperationList, projectsPath, args)
}

// UpdateProject updates the fields present in args
func (cl *Client) UpdateProject(ctx context.Context, id string, args Args) (*Project, error) {
	var project Project
	err := cl.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      itemPath(projectsPath, id),
		body:      args,
	}, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &project, nil
}

// DeleteProject deletes a project with all its sections and tasks
func (cl *Client) DeleteProject(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      itemPath(projectsPath, id),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return ok, nil
}

// ArchiveProject archives a project
func (cl *Client) ArchiveProject(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationArchive,
		method:    http.MethodPost,
		path:      itemPath(projectsPath, id, "archive"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to archive project: %w", err)
	}
	return ok, nil
}

// UnarchiveProject restores an archived project
func (cl *Client) UnarchiveProject(ctx context.Context, id string) (bool, error) {
	ok, err := cl.doBool(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationUnarchive,
		method:    http.MethodPost,
		path:      itemPath(projectsPath, id, "unarchive"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to unarchive project: %w", err)
	}
	return ok, nil
}

// GetCollaborators lists the users a shared project is shared with
func (cl *Client) GetCollaborators(ctx context.Context, projectID string) Pager[Collaborator] {
	return paginate[Collaborator](ctx, cl, instrumentation.ResourceProjects, instrumentation.OperationList,
		itemPath(projectsPath, projectID, "collaborators"), nil)
}
