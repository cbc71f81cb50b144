package todoist_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

type resultKind int

const (
	// returnsRecord serializes whatever the operation returned.
	returnsRecord resultKind = iota
	// returnsStatus reports a bare success signal as a status object.
	returnsStatus
	// needsReadBack fetches the current record after a successful call.
	needsReadBack
)

// resultPolicy says how a tool turns the backend answer into a result.
type resultPolicy struct {
	kind     resultKind
	verb     string
	done     string
	readBack func(ctx context.Context, api todoist.API, id string) (any, error)
}

func readTask(ctx context.Context, api todoist.API, id string) (any, error) {
	return api.GetTask(ctx, id)
}

var (
	updated     = resultPolicy{kind: needsReadBack, verb: "update", done: "updated", readBack: readTask}
	moved       = resultPolicy{kind: needsReadBack, verb: "move", done: "moved", readBack: readTask}
	closed      = resultPolicy{kind: returnsStatus, verb: "close", done: "closed"}
	reopened    = resultPolicy{kind: returnsStatus, verb: "reopen", done: "reopened"}
	deleted     = resultPolicy{kind: returnsStatus, verb: "delete", done: "deleted"}
	archived    = resultPolicy{kind: returnsStatus, verb: "archive", done: "archived"}
	unarchived  = resultPolicy{kind: returnsStatus, verb: "unarchive", done: "unarchived"}
	recordValue = resultPolicy{kind: returnsRecord}
)

// resultPolicies lists every tool that does not simply return a record.
var resultPolicies = map[string]resultPolicy{
	"update_task":       updated,
	"move_task":         moved,
	"close_task":        closed,
	"complete_task":     closed,
	"reopen_task":       reopened,
	"delete_task":       deleted,
	"delete_project":    deleted,
	"archive_project":   archived,
	"unarchive_project": unarchived,
	"delete_section":    deleted,
	"delete_label":      deleted,
	"delete_comment":    deleted,
}

func policyFor(tool string) resultPolicy {
	if p, ok := resultPolicies[tool]; ok {
		return p
	}
	return recordValue
}

// refusal is the message for a false answer from Todoist. Updates and
// moves are only refused for missing items; state changes are also refused
// when the item is already in the target state.
func (p resultPolicy) refusal(resource, id string) string {
	noun := strings.TrimSuffix(resource, "s")
	if p.kind == needsReadBack {
		return fmt.Sprintf("Failed to %s %s %s: it does not exist", p.verb, noun, id)
	}
	return fmt.Sprintf("Failed to %s %s %s: it does not exist or is already %s", p.verb, noun, id, p.done)
}
