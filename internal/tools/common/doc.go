// Package common provides helpers shared by the MCP tool packages:
// instrumentation of tool handlers and extraction of the item a call
// targets.
package common
