// Package params turns loosely typed MCP tool arguments into the clean
// argument maps the Todoist client sends.
//
// A tool reads each parameter through a Reader into an Optional, collects
// them in a map and passes that map through Normalize, which drops every
// absent entry and types date and timestamp values:
//
//	r := params.NewReader(request.GetArguments())
//	args := params.Normalize(map[string]any{
//	    "content":  r.RequiredString("content"),
//	    "due_date": r.String("due_date"),
//	    "priority": r.Int("priority"),
//	})
//	if err := r.Err(); err != nil {
//	    return err
//	}
package params
