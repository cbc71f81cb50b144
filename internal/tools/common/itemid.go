package common

import (
	"strings"

	"github.com/teemow/todoist-mcp/internal/tools/params"
)

// itemIDKeys are checked in order; the first non-empty id wins.
var itemIDKeys = []string{
	"task_id",
	"comment_id",
	"section_id",
	"label_id",
	"project_id",
}

// ItemIDFromArgs extracts the primary Todoist id a tool call targets, or ""
// for calls that do not address a single item. Ids are read the way the
// tool operations read them, so a task_id sent as the JSON number 9 is "9"
// here too.
func ItemIDFromArgs(args map[string]any) string {
	in := params.NewReader(args)
	for _, key := range itemIDKeys {
		if id, ok := in.String(key).Get(); ok && strings.TrimSpace(id) != "" {
			return id
		}
	}
	return ""
}
