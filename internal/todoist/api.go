package todoist

import "context"

// API is the set of Todoist operations the MCP tools are built on.
// Operations that Todoist answers with a bare success signal return a
// bool; false means Todoist refused (item missing or already in that state).
type API interface {
	// Tasks
	AddTask(ctx context.Context, args Args) (*Task, error)
	QuickAddTask(ctx context.Context, args Args) (*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	GetTasks(ctx context.Context, args Args) Pager[Task]
	FilterTasks(ctx context.Context, args Args) Pager[Task]
	UpdateTask(ctx context.Context, id string, args Args) (bool, error)
	MoveTask(ctx context.Context, id string, args Args) (bool, error)
	CloseTask(ctx context.Context, id string) (bool, error)
	ReopenTask(ctx context.Context, id string) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	GetCompletedTasksByCompletionDate(ctx context.Context, args Args) Pager[Task]

	// Projects
	AddProject(ctx context.Context, args Args) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetProjects(ctx context.Context, args Args) Pager[Project]
	UpdateProject(ctx context.Context, id string, args Args) (*Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)
	ArchiveProject(ctx context.Context, id string) (bool, error)
	UnarchiveProject(ctx context.Context, id string) (bool, error)
	GetCollaborators(ctx context.Context, projectID string) Pager[Collaborator]

	// Sections
	AddSection(ctx context.Context, args Args) (*Section, error)
	GetSection(ctx context.Context, id string) (*Section, error)
	GetSections(ctx context.Context, args Args) Pager[Section]
	UpdateSection(ctx context.Context, id string, args Args) (*Section, error)
	DeleteSection(ctx context.Context, id string) (bool, error)

	// Labels
	AddLabel(ctx context.Context, args Args) (*Label, error)
	GetLabel(ctx context.Context, id string) (*Label, error)
	GetLabels(ctx context.Context) Pager[Label]
	UpdateLabel(ctx context.Context, id string, args Args) (*Label, error)
	DeleteLabel(ctx context.Context, id string) (bool, error)
	GetSharedLabels(ctx context.Context, args Args) Pager[string]

	// Comments
	AddComment(ctx context.Context, args Args) (*Comment, error)
	GetComment(ctx context.Context, id string) (*Comment, error)
	GetComments(ctx context.Context, args Args) Pager[Comment]
	UpdateComment(ctx context.Context, id string, args Args) (*Comment, error)
	DeleteComment(ctx context.Context, id string) (bool, error)
}
