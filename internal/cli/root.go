// Package cli wires the structural search engine into a command-line
// interface. The MCP server is the primary surface; the query commands
// exist so everything the server exposes can also be run by hand.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JavierFrauca/mcp-code-manager/internal/config"
)

var (
	rootDir string
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcm",
	Short: "Structural analysis and search for C# repositories",
	Long: `mcm scans C# repositories without compiling them: it parses source
files heuristically, classifies every type (DTO, service, controller,
interface, enum, ...), and answers structural queries over the result.

Run 'mcm serve' to expose the same queries to LLM coding assistants
over the Model Context Protocol.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "repository root to operate on")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// resolveRoot returns the absolute repository root from the --root
// flag.
func resolveRoot() (string, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", rootDir, err)
	}
	return abs, nil
}

// loadConfig reads the per-repository configuration for a root.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// printJSON renders a query result to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
