package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tracked file",
	Long: `Move a tracked file to a new path and record the rename. If the
file was already moved on disk, only the record is created.`,
	Args: cobra.ExactArgs(2),
	Run:  runRename,
}

var renamePrompt string

func init() {
	renameCmd.Flags().StringVarP(&renamePrompt, "prompt", "p", "", "Prompt that led to this operation")
}

func runRename(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	commit, err := core.Rename(c.Config, c.Store, c.Objects, args[0], args[1], core.OpMeta{Prompt: renamePrompt})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("[%s] %s\n", commit.ShortID(), commit.Message)
}
