package cli

import (
	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

var findMode string

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <class-name>",
	Short: "Locate a class (or any named type) in the repository",
	Long: `Locate a type by exact name. Direct mode only opens files whose name
matches the usual conventions (Foo.cs, IFoo.cs, FooDto.cs, ...); deep
mode scans every source file and reports every declaration site.

Examples:
  mcm find UserService
  mcm find Order --mode deep --root ./src`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVarP(&findMode, "mode", "m", "direct", "search strategy: direct or deep")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	mode, err := search.ParseMode(findMode)
	if err != nil {
		return err
	}

	engine, err := search.NewEngine(cfg, newProgressReporter(quiet))
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.FindClass(cmd.Context(), root, args[0], mode)
	if err != nil {
		return err
	}
	return printJSON(result)
}
