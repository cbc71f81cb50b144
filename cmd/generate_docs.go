package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/tools/todoist_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, so the reference always matches the tool definitions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// No token is needed to list tools, so the environment is hidden from
	// the accessor and no client is built.
	serverContext, err := server.NewServerContext(context.Background(), server.Options{
		Accessor: server.AccessorConfig{
			LookupEnv: func(string) (string, bool) { return "", false },
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := newMCPServer(nil)
	if err := todoist_tools.RegisterTodoistTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register Todoist tools: %w", err)
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	markdown := generateToolsMarkdown(tools)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

// categoryOrder follows the Todoist hierarchy: tasks live in sections of
// projects, labels and comments hang off tasks.
var categoryOrder = []string{"Task Tools", "Project Tools", "Section Tools", "Label Tools", "Comment Tools", "Other"}

func generateToolsMarkdown(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], tool)
	}

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	fmt.Fprintf(&sb, "todoist-mcp exposes %d tools. This file is generated from the tool definitions by `todoist-mcp generate-docs`.\n\n", len(tools))

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categoryOrder {
		if n := len(byCategory[category]); n > 0 {
			anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
			fmt.Fprintf(&sb, "- [%s](#%s) (%d)\n", category, anchor, n)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Results\n\n")
	sb.WriteString("Every tool returns a JSON text result:\n\n")
	sb.WriteString("- **Records:** the Todoist object or a JSON array for list tools\n")
	sb.WriteString("- **Status:** `{\"success\": true, \"id\": ..., \"action\": ...}` for delete, close, archive and similar tools\n")
	sb.WriteString("- **Refusals:** `{\"status\": \"failed\", \"message\": ...}` when Todoist reports the item missing or already in that state\n")
	sb.WriteString("- **Errors:** `{\"error\": ..., \"details\": ...}`; authentication failures name the token variable to set\n\n")

	for _, category := range categoryOrder {
		categoryTools := byCategory[category]
		if len(categoryTools) == 0 {
			continue
		}
		slices.SortFunc(categoryTools, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })

		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// getCategoryFromToolName groups tools by the resource they act on. The
// checks run from the most specific noun down, so add_comment is not
// filed under tasks.
func getCategoryFromToolName(name string) string {
	switch {
	case strings.Contains(name, "comment"):
		return "Comment Tools"
	case strings.Contains(name, "label"):
		return "Label Tools"
	case strings.Contains(name, "section"):
		return "Section Tools"
	case strings.Contains(name, "project"), strings.Contains(name, "collaborator"):
		return "Project Tools"
	case strings.Contains(name, "task"):
		return "Task Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)

	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	if hint := tool.Annotations.ReadOnlyHint; hint != nil && !*hint {
		sb.WriteString("*Modifies Todoist data; not available in read-only mode.*\n\n")
	}

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
			if !ok {
				continue
			}

			requiredStr := "optional"
			if slices.Contains(tool.InputSchema.Required, name) {
				requiredStr = "required"
			}

			fmt.Fprintf(&sb, "- `%s` (%s, %s): ", name, getPropertyType(propMap), requiredStr)
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				fmt.Fprintf(&sb, "%s parameter", getPropertyType(propMap))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func getPropertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}
