// Package resources provides MCP resources for browsing Todoist data.
// Resources are read-only data sources that MCP clients can fetch as
// context, such as the project list or today's agenda, without calling a
// tool.
package resources
