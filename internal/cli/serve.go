package cli

import (
	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for structural code search",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered
coding assistants query the structure of C# repositories.

The server communicates via stdio (standard MCP transport) and exposes:
- find_class: locate a type by name (direct or deep)
- find_elements: list every element of a kind
- get_file_with_analysis: one file's content plus its structure
- get_solution_structure: the aggregate repository view
- search_symbols: ranked free-text symbol search

Example:
  mcm serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(cfg, Version)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Serve(cmd.Context())
}
