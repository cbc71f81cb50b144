package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the todoist-mcp application
var rootCmd = &cobra.Command{
	Use:   "todoist-mcp",
	Short: "Exposes Todoist as MCP tools for AI assistants",
	Long: `todoist-mcp is an MCP (Model Context Protocol) server that lets AI
assistants manage Todoist tasks, projects, sections, labels and comments.

Set TODOIST_API_TOKEN to a Todoist personal API token and run:
  todoist-mcp serve`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "todoist-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
