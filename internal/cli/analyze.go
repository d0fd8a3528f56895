package cli

import (
	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Print one file's content together with its structure",
	Long: `Read a single source file and print both its raw content and its
structural analysis: namespace, usings, declarations with members,
line statistics, and complexity. The path is relative to the root.

Example:
  mcm analyze Services/UserService.cs`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	engine, err := search.NewEngine(cfg, nil)
	if err != nil {
		return err
	}
	defer engine.Close()

	analysis, err := engine.GetFileWithAnalysis(cmd.Context(), root, args[0])
	if err != nil {
		return err
	}
	return printJSON(analysis)
}
