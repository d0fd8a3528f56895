package cli

import (
	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

var symbolsLimit int

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols <query>",
	Short: "Ranked free-text search over declarations",
	Long: `Search declaration names, namespaces, and XML doc summaries with a
free-text query and print the ranked hits. Supports query-string
syntax for field filters.

Examples:
  mcm symbols payment
  mcm symbols 'element:service user' --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", 20, "maximum number of results")
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
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

	hits, err := engine.SearchSymbols(cmd.Context(), root, args[0], symbolsLimit)
	if err != nil {
		return err
	}
	return printJSON(hits)
}
