package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var untrackCmd = &cobra.Command{
	Use:   "untrack <path>...",
	Short: "Stop tracking files",
	Long: `Remove files from the tracked set. The files stay on disk and
their history stays in the memory store.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runUntrack,
}

var untrackPrompt string

func init() {
	untrackCmd.Flags().StringVarP(&untrackPrompt, "prompt", "p", "", "Prompt that led to this operation")
}

func runUntrack(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	commit, err := core.Untrack(c.Config, c.Store, c.Objects, args, core.OpMeta{Prompt: untrackPrompt})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("[%s] stopped tracking %d files\n", commit.ShortID(), len(commit.Files))
}
