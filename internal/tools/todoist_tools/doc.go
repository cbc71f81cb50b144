// Package todoist_tools provides MCP tools for Todoist tasks, projects,
// sections, labels and comments.
//
// Every tool follows the same pipeline: obtain the shared Todoist client,
// read and normalize the arguments, make one backend call (draining all
// pages for list tools), then serialize the answer. Each tool returns
// exactly one JSON document: a record, an array, a status object, a
// refusal ({"status":"failed"}) or an error envelope ({"error","details"}).
//
// Operations Todoist answers with a bare success signal are described in
// resultPolicies: update_task and move_task read the task back, the others
// report a status object.
//
// In read-only mode only tools that do not modify data are registered.
package todoist_tools
