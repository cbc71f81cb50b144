package todoist_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/envelope"
	"github.com/teemow/todoist-mcp/internal/tools/paging"
	"github.com/teemow/todoist-mcp/internal/tools/params"
)

// operation performs the single backend call of a tool. It returns the
// value to serialize, or a bool for operations Todoist answers with a bare
// success signal.
type operation func(ctx context.Context, api todoist.API, in *params.Reader) (any, error)

// definition ties an MCP tool to its operation.
type definition struct {
	tool      mcp.Tool
	resource  string
	operation string
	mutates   bool
	run       operation
}

// Toolset serves the Todoist tools from a ServerContext.
type Toolset struct {
	sc *server.ServerContext
}

// NewToolset creates a toolset bound to sc.
func NewToolset(sc *server.ServerContext) *Toolset {
	return &Toolset{sc: sc}
}

// definitions lists every tool in registration order.
func (ts *Toolset) definitions() []definition {
	var defs []definition
	defs = append(defs, taskDefinitions()...)
	defs = append(defs, projectDefinitions()...)
	defs = append(defs, sectionDefinitions()...)
	defs = append(defs, labelDefinitions()...)
	defs = append(defs, commentDefinitions()...)
	return defs
}

// Tools returns the tools that Register would add, honouring read-only mode.
func (ts *Toolset) Tools() []mcp.Tool {
	var tools []mcp.Tool
	for _, def := range ts.definitions() {
		if ts.sc.ReadOnly() && def.mutates {
			continue
		}
		tools = append(tools, def.tool)
	}
	return tools
}

// Register adds the tools to s. In read-only mode tools that modify
// Todoist data are left out.
func (ts *Toolset) Register(s *mcpserver.MCPServer) {
	for _, def := range ts.definitions() {
		if ts.sc.ReadOnly() && def.mutates {
			continue
		}
		target := common.Target{
			Tool:      def.tool.Name,
			Resource:  def.resource,
			Operation: def.operation,
		}
		s.AddTool(def.tool, common.InstrumentedToolHandler(target, ts.sc, ts.handler(def)))
	}
}

// RegisterTodoistTools registers all Todoist tools with the MCP server
func RegisterTodoistTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}
	NewToolset(sc).Register(s)
	return nil
}

func (ts *Toolset) handler(def definition) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return ts.run(ctx, def, request.GetArguments()), nil
	}
}

// run is the pipeline shared by every tool: obtain the client, perform the
// operation, apply the result policy, serialize. Every outcome is a JSON
// envelope; nothing is returned as a Go error.
func (ts *Toolset) run(ctx context.Context, def definition, args map[string]any) *mcp.CallToolResult {
	name := def.tool.Name
	itemID := common.ItemIDFromArgs(args)
	classifier := envelope.Classifier{TokenEnv: ts.sc.TokenEnv()}

	api, err := ts.sc.Client(ctx)
	if err != nil {
		return errorResult(classifier.Classify(err, name, itemID))
	}

	value, err := def.run(ctx, api, params.NewReader(args))
	if err != nil {
		var pe *preconditionError
		if errors.As(err, &pe) {
			return errorResult(envelope.Precondition(name, pe.msg))
		}
		return errorResult(classifier.Classify(err, name, itemID))
	}

	policy := policyFor(name)
	switch policy.kind {
	case returnsStatus, needsReadBack:
		ok, _ := value.(bool)
		if !ok {
			return textResult(envelope.NewFailure(policy.refusal(def.resource, itemID)))
		}
		if policy.kind == returnsStatus {
			return textResult(envelope.Status{Success: true, ID: itemID, Action: policy.done})
		}
		current, err := policy.readBack(ctx, api, itemID)
		if err != nil {
			return errorResult(classifier.Classify(err, name, itemID))
		}
		return textResult(current)
	default:
		return textResult(value)
	}
}

func textResult(v any) *mcp.CallToolResult {
	return mcp.NewToolResultText(envelope.Serialize(v))
}

func errorResult(env envelope.ErrorEnvelope) *mcp.CallToolResult {
	return mcp.NewToolResultError(envelope.Serialize(env))
}

// preconditionError rejects a call before any backend request.
type preconditionError struct {
	msg string
}

func (e *preconditionError) Error() string {
	return e.msg
}

func precondition(format string, args ...any) error {
	return &preconditionError{msg: fmt.Sprintf(format, args...)}
}

// checked turns a parameter extraction error into a precondition failure.
func checked(in *params.Reader) error {
	if err := in.Err(); err != nil {
		return precondition("%s", err.Error())
	}
	return nil
}

// backendArgs normalizes collected parameters into request arguments.
func backendArgs(fields map[string]any) todoist.Args {
	return todoist.Args(params.Normalize(fields))
}

// list drains pager and trims the result to limit.
func list[T any](ctx context.Context, pager todoist.Pager[T], limit int) ([]T, error) {
	items, err := paging.Flatten(ctx, pager)
	if err != nil {
		return nil, err
	}
	return paging.Limit(items, limit), nil
}
