package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var jumpCmd = &cobra.Command{
	Use:   "jump <commit>",
	Short: "Restore the working tree to a past snapshot",
	Long: `Restore every tracked file to its state at the given snapshot and
continue on a fresh branch. No branch pointer moves and no snapshot is
ever deleted, so the abandoned trajectory stays reachable.`,
	Args: cobra.ExactArgs(1),
	Run:  runJump,
}

var jumpDiscard bool

func init() {
	jumpCmd.Flags().BoolVar(&jumpDiscard, "discard", false, "Overwrite uncommitted changes instead of refusing")
}

func runJump(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	rec, err := core.Jump(c.Config, c.Store, c.Objects, args[0], core.JumpOptions{Discard: jumpDiscard})
	if err != nil {
		var dirty *core.DirtyWorkingTreeError
		if errors.As(err, &dirty) {
			fmt.Println("Refusing to jump: uncommitted changes would be lost")
			for _, p := range dirty.Paths {
				color.New(color.FgRed).Printf("  %s\n", p)
			}
			exitError("snap first, or pass --discard to overwrite")
		}
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Jumped to %s\n", shortID(rec.ToCommit))
	fmt.Printf("Now on branch %s (from %s)\n", rec.NewBranch, rec.FromBranch)
}
