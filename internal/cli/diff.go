package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var diffCmd = &cobra.Command{
	Use:   "diff <commit> <commit>",
	Short: "Show file changes between two snapshots",
	Args:  cobra.ExactArgs(2),
	Run:   runDiff,
}

var diffFull bool

func init() {
	diffCmd.Flags().BoolVar(&diffFull, "full", false, "Include the full diff text")
}

func runDiff(cmd *cobra.Command, args []string) {
	c := initReadContext()
	defer c.Close()

	changes, err := core.DiffCommits(c.Objects, args[0], args[1])
	if err != nil {
		exitError("%v", err)
	}

	if len(changes) == 0 {
		fmt.Println("No differences")
		return
	}
	printChanges(changes, diffFull)
}
