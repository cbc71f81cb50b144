// Package logging sets up slog for todoist-mcp and holds the request
// logger the Todoist client writes through.
//
// Logs go to stderr, as text or JSON; the stdio transport owns stdout.
// With --debug the client logs one line per request and one per refused
// status change, with ids collapsed out of the route:
//
//	level=DEBUG msg="todoist request" component=todoist method=POST route=/tasks/:id/close request_id=...
//
// The Todoist API token is never logged; SanitizeToken reports its length
// when a token has to be mentioned at all.
package logging
