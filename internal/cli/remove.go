package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>...",
	Short: "Untrack files and delete them from disk",
	Long: `Stop tracking files and remove them from the working directory.
Their content stays reachable through every snapshot that recorded it.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRemove,
}

var (
	removePrompt string
	removeForce  bool
)

func init() {
	removeCmd.Flags().StringVarP(&removePrompt, "prompt", "p", "", "Prompt that led to this operation")
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip the confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) {
	if !removeForce {
		fmt.Printf("Remove %s from disk? (y/N): ", strings.Join(args, ", "))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled")
			return
		}
	}

	c := initWriteContext()
	defer c.Close()

	commit, err := core.Remove(c.Config, c.Store, c.Objects, args, core.OpMeta{Prompt: removePrompt})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("[%s] removed %d files\n", commit.ShortID(), len(commit.Files))
}
