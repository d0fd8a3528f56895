package cli

import (
	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

// structureCmd represents the structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Show the aggregate structure of the repository",
	Long: `Scan the repository and print its aggregate structure: namespaces
with their files, element kind counts, projects, and the namespace
dependency graph including any cycles.

Example:
  mcm structure --root ./src`,
	RunE: runStructure,
}

func init() {
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	engine, err := search.NewEngine(cfg, newProgressReporter(quiet))
	if err != nil {
		return err
	}
	defer engine.Close()

	structure, err := engine.GetSolutionStructure(cmd.Context(), root)
	if err != nil {
		return err
	}
	return printJSON(structure)
}
