package commands

import (
	"github.com/spf13/cobra"
)

var (
	// workerCount controls how many leaf workers the demo tree spawns.
	workerCount int

	// verbose enables debug-level logging of the actor runtime itself.
	verbose bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "actortree",
	Short: "actortree exercises the hierarchical actor runtime",
	Long: `actortree is a small command-line tool that builds a demo actor
supervision tree, sends it work, and prints the resulting structure.

It exists to exercise the runtime end to end outside of a test binary.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&workerCount, "workers", 3,
		"Number of leaf worker actors to spawn under the demo supervisor",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false,
		"Log actor runtime lifecycle events at debug level",
	)

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(treeCmd)
}
