package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/classify"
	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

var elementsPattern string

// elementsCmd represents the elements command
var elementsCmd = &cobra.Command{
	Use:   "elements <kind>",
	Short: "List every element of a kind",
	Long: `List every code element of one kind, optionally filtered by a
case-insensitive name substring.

Kinds: ` + kindList() + `

Examples:
  mcm elements dto
  mcm elements service --pattern user`,
	Args: cobra.ExactArgs(1),
	RunE: runElements,
}

func init() {
	elementsCmd.Flags().StringVarP(&elementsPattern, "pattern", "p", "", "case-insensitive name substring filter")
	rootCmd.AddCommand(elementsCmd)
}

func kindList() string {
	kinds := make([]string, 0, len(classify.All()))
	for _, k := range classify.All() {
		kinds = append(kinds, string(k))
	}
	return strings.Join(kinds, ", ")
}

func runElements(cmd *cobra.Command, args []string) error {
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

	matches, err := engine.FindElements(cmd.Context(), root, args[0], elementsPattern)
	if err != nil {
		return err
	}
	return printJSON(matches)
}
