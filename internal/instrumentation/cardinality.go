package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// Label values derived from request data must go through these helpers so
// arbitrary ids and paths never become label values.

// NormalizeAPIPath collapses a Todoist REST path into a route template by
// replacing id segments with ":id".
//
// Example:
//
//	NormalizeAPIPath("/tasks/6X7rM8997g3RQmvh/close")  // "/tasks/:id/close"
//	NormalizeAPIPath("/tasks/filter")                  // "/tasks/filter"
func NormalizeAPIPath(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if i == 0 || knownSegments[seg] {
			continue
		}
		segments[i] = ":id"
	}
	return "/" + strings.Join(segments, "/")
}

var knownSegments = map[string]bool{
	"filter":             true,
	"quick":              true,
	"close":              true,
	"reopen":             true,
	"move":               true,
	"archive":            true,
	"unarchive":          true,
	"collaborators":      true,
	"shared":             true,
	"completed":          true,
	"by_due_date":        true,
	"by_completion_date": true,
}

// Common operation types for Todoist API metrics.
const (
	OperationList    = "list"
	OperationGet     = "get"
	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationClose   = "close"
	OperationReopen  = "reopen"
	OperationMove    = "move"
	OperationArchive = "archive"
	OperationFilter  = "filter"

	OperationUnarchive = "unarchive"
)
