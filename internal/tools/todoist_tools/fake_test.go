package todoist_tools

import (
	"context"
	"sync"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

// recordedCall is one backend call seen by fakeAPI.
type recordedCall struct {
	Method string
	ID     string
	Args   todoist.Args
}

// fakeAPI is an in-memory todoist.API. Methods not given a behaviour
// return zero values; every call is recorded.
type fakeAPI struct {
	mu    sync.Mutex
	calls []recordedCall

	tasks       map[string]*todoist.Task
	taskPages   [][]todoist.Task
	boolResult  bool
	err         error
	listErr     error
	comments    []todoist.Comment
	collaborate []todoist.Collaborator
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{tasks: map[string]*todoist.Task{}, boolResult: true}
}

func (f *fakeAPI) record(method, id string, args todoist.Args) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{Method: method, ID: id, Args: args})
}

func (f *fakeAPI) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeAPI) methods() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Method)
	}
	return out
}

func pagesOf[T any](pages [][]T, err error) todoist.Pager[T] {
	return func(yield func([]T, error) bool) {
		for _, p := range pages {
			if !yield(p, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (f *fakeAPI) AddTask(_ context.Context, args todoist.Args) (*todoist.Task, error) {
	f.record("AddTask", "", args)
	if f.err != nil {
		return nil, f.err
	}
	content, _ := args["content"].(string)
	projectID, _ := args["project_id"].(string)
	return &todoist.Task{ID: "new-1", Content: content, ProjectID: projectID}, nil
}

func (f *fakeAPI) QuickAddTask(_ context.Context, args todoist.Args) (*todoist.Task, error) {
	f.record("QuickAddTask", "", args)
	text, _ := args["text"].(string)
	return &todoist.Task{ID: "quick-1", Content: text}, f.err
}

func (f *fakeAPI) GetTask(_ context.Context, id string) (*todoist.Task, error) {
	f.record("GetTask", id, nil)
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, &todoist.APIError{StatusCode: 404, Method: "GET", Path: "/tasks/" + id, Message: "Task not found"}
}

func (f *fakeAPI) GetTasks(_ context.Context, args todoist.Args) todoist.Pager[todoist.Task] {
	f.record("GetTasks", "", args)
	return pagesOf(f.taskPages, f.listErr)
}

func (f *fakeAPI) FilterTasks(_ context.Context, args todoist.Args) todoist.Pager[todoist.Task] {
	f.record("FilterTasks", "", args)
	return pagesOf(f.taskPages, f.listErr)
}

func (f *fakeAPI) UpdateTask(_ context.Context, id string, args todoist.Args) (bool, error) {
	f.record("UpdateTask", id, args)
	return f.boolResult, f.err
}

func (f *fakeAPI) MoveTask(_ context.Context, id string, args todoist.Args) (bool, error) {
	f.record("MoveTask", id, args)
	return f.boolResult, f.err
}

func (f *fakeAPI) CloseTask(_ context.Context, id string) (bool, error) {
	f.record("CloseTask", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) ReopenTask(_ context.Context, id string) (bool, error) {
	f.record("ReopenTask", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) (bool, error) {
	f.record("DeleteTask", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) GetCompletedTasksByCompletionDate(_ context.Context, args todoist.Args) todoist.Pager[todoist.Task] {
	f.record("GetCompletedTasksByCompletionDate", "", args)
	return pagesOf(f.taskPages, f.listErr)
}

func (f *fakeAPI) AddProject(_ context.Context, args todoist.Args) (*todoist.Project, error) {
	f.record("AddProject", "", args)
	name, _ := args["name"].(string)
	return &todoist.Project{ID: "p-new", Name: name}, f.err
}

func (f *fakeAPI) GetProject(_ context.Context, id string) (*todoist.Project, error) {
	f.record("GetProject", id, nil)
	return &todoist.Project{ID: id, Name: "Work"}, f.err
}

func (f *fakeAPI) GetProjects(_ context.Context, args todoist.Args) todoist.Pager[todoist.Project] {
	f.record("GetProjects", "", args)
	return pagesOf([][]todoist.Project{{{ID: "p1", Name: "Inbox"}}, {{ID: "p2", Name: "Work"}}}, f.listErr)
}

func (f *fakeAPI) UpdateProject(_ context.Context, id string, args todoist.Args) (*todoist.Project, error) {
	f.record("UpdateProject", id, args)
	name, _ := args["name"].(string)
	return &todoist.Project{ID: id, Name: name}, f.err
}

func (f *fakeAPI) DeleteProject(_ context.Context, id string) (bool, error) {
	f.record("DeleteProject", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) ArchiveProject(_ context.Context, id string) (bool, error) {
	f.record("ArchiveProject", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) UnarchiveProject(_ context.Context, id string) (bool, error) {
	f.record("UnarchiveProject", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) GetCollaborators(_ context.Context, projectID string) todoist.Pager[todoist.Collaborator] {
	f.record("GetCollaborators", projectID, nil)
	return pagesOf([][]todoist.Collaborator{f.collaborate}, f.listErr)
}

func (f *fakeAPI) AddSection(_ context.Context, args todoist.Args) (*todoist.Section, error) {
	f.record("AddSection", "", args)
	name, _ := args["name"].(string)
	return &todoist.Section{ID: "s-new", Name: name}, f.err
}

func (f *fakeAPI) GetSection(_ context.Context, id string) (*todoist.Section, error) {
	f.record("GetSection", id, nil)
	return &todoist.Section{ID: id}, f.err
}

func (f *fakeAPI) GetSections(_ context.Context, args todoist.Args) todoist.Pager[todoist.Section] {
	f.record("GetSections", "", args)
	return pagesOf[todoist.Section](nil, f.listErr)
}

func (f *fakeAPI) UpdateSection(_ context.Context, id string, args todoist.Args) (*todoist.Section, error) {
	f.record("UpdateSection", id, args)
	name, _ := args["name"].(string)
	return &todoist.Section{ID: id, Name: name}, f.err
}

func (f *fakeAPI) DeleteSection(_ context.Context, id string) (bool, error) {
	f.record("DeleteSection", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) AddLabel(_ context.Context, args todoist.Args) (*todoist.Label, error) {
	f.record("AddLabel", "", args)
	name, _ := args["name"].(string)
	return &todoist.Label{ID: "l-new", Name: name}, f.err
}

func (f *fakeAPI) GetLabel(_ context.Context, id string) (*todoist.Label, error) {
	f.record("GetLabel", id, nil)
	return &todoist.Label{ID: id}, f.err
}

func (f *fakeAPI) GetLabels(_ context.Context) todoist.Pager[todoist.Label] {
	f.record("GetLabels", "", nil)
	return pagesOf[todoist.Label](nil, f.listErr)
}

func (f *fakeAPI) UpdateLabel(_ context.Context, id string, args todoist.Args) (*todoist.Label, error) {
	f.record("UpdateLabel", id, args)
	return &todoist.Label{ID: id}, f.err
}

func (f *fakeAPI) DeleteLabel(_ context.Context, id string) (bool, error) {
	f.record("DeleteLabel", id, nil)
	return f.boolResult, f.err
}

func (f *fakeAPI) GetSharedLabels(_ context.Context, args todoist.Args) todoist.Pager[string] {
	f.record("GetSharedLabels", "", args)
	return pagesOf([][]string{{"shared-a", "shared-b"}}, f.listErr)
}

func (f *fakeAPI) AddComment(_ context.Context, args todoist.Args) (*todoist.Comment, error) {
	f.record("AddComment", "", args)
	content, _ := args["content"].(string)
	return &todoist.Comment{ID: "c-new", Content: content}, f.err
}

func (f *fakeAPI) GetComment(_ context.Context, id string) (*todoist.Comment, error) {
	f.record("GetComment", id, nil)
	return &todoist.Comment{ID: id}, f.err
}

func (f *fakeAPI) GetComments(_ context.Context, args todoist.Args) todoist.Pager[todoist.Comment] {
	f.record("GetComments", "", args)
	return pagesOf([][]todoist.Comment{f.comments}, f.listErr)
}

func (f *fakeAPI) UpdateComment(_ context.Context, id string, args todoist.Args) (*todoist.Comment, error) {
	f.record("UpdateComment", id, args)
	content, _ := args["content"].(string)
	return &todoist.Comment{ID: id, Content: content}, f.err
}

func (f *fakeAPI) DeleteComment(_ context.Context, id string) (bool, error) {
	f.record("DeleteComment", id, nil)
	return f.boolResult, f.err
}

var _ todoist.API = (*fakeAPI)(nil)
