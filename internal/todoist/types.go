package todoist

import (
	"time"

	"cloud.google.com/go/civil"
)

// Args holds the parameters of one API call. Only keys present in the map
// are sent; values are JSON-encoded for request bodies and rendered as
// strings for query parameters.
type Args map[string]any

// Task represents a Todoist task
type Task struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	SectionID   *string    `json:"section_id"`
	ParentID    *string    `json:"parent_id"`
	Labels      []string   `json:"labels"`
	Priority    int        `json:"priority"`
	Due         *Due       `json:"due"`
	Deadline    *Deadline  `json:"deadline"`
	Duration    *Duration  `json:"duration"`
	Checked     bool       `json:"checked"`
	ChildOrder  int        `json:"child_order"`
	NoteCount   int        `json:"note_count"`
	CreatorID   string     `json:"added_by_uid"`
	AssigneeID  *string    `json:"responsible_uid"`
	AssignerID  *string    `json:"assigned_by_uid"`
	AddedAt     *time.Time `json:"added_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Due describes when a task is due. Date holds either a calendar date or a
// local date-time, depending on whether the task has a time component.
type Due struct {
	Date        string  `json:"date"`
	String      string  `json:"string"`
	Lang        string  `json:"lang"`
	IsRecurring bool    `json:"is_recurring"`
	Timezone    *string `json:"timezone"`
}

// Deadline is a calendar date a task must be finished by
type Deadline struct {
	Date civil.Date `json:"date"`
	Lang string     `json:"lang"`
}

// Duration is the estimated time a task takes
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // "minute" or "day"
}

// Project represents a Todoist project
type Project struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Color          string     `json:"color"`
	ParentID       *string    `json:"parent_id"`
	ChildOrder     int        `json:"child_order"`
	ViewStyle      string     `json:"view_style"` // "list", "board" or "calendar"
	IsFavorite     bool       `json:"is_favorite"`
	IsShared       bool       `json:"is_shared"`
	IsArchived     bool       `json:"is_archived"`
	IsCollapsed    bool       `json:"is_collapsed"`
	IsInbox        bool       `json:"inbox_project"`
	CanAssignTasks bool       `json:"can_assign_tasks"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// Section represents a section within a project
type Section struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	Order       int        `json:"section_order"`
	IsArchived  bool       `json:"is_archived"`
	IsCollapsed bool       `json:"is_collapsed"`
	AddedAt     *time.Time `json:"added_at"`
}

// Label represents a personal label
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Order      int    `json:"order"`
	IsFavorite bool   `json:"is_favorite"`
}

// Comment represents a comment on a task or a project. Exactly one of
// TaskID and ProjectID is set.
type Comment struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	TaskID     *string     `json:"task_id"`
	ProjectID  *string     `json:"project_id"`
	PosterID   string      `json:"posted_uid"`
	PostedAt   *time.Time  `json:"posted_at"`
	Attachment *Attachment `json:"file_attachment"`
}

// Attachment is a file or link attached to a comment
type Attachment struct {
	ResourceType string `json:"resource_type"`
	FileName     string `json:"file_name,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	FileURL      string `json:"file_url,omitempty"`
}

// Collaborator is a user a shared project is shared with
type Collaborator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
