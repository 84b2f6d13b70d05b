package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree state",
	Long:  `Show the active branch, head snapshot, and how every project file classifies against the tracked set.`,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initReadContext()
	defer c.Close()

	res, err := core.Status(c.Config, c.Store, c.Objects)
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("On branch %s\n", res.Branch)
	if res.Head == "" {
		fmt.Println("No snapshots yet")
	} else {
		fmt.Printf("Head snapshot %s\n", shortID(res.Head))
	}
	fmt.Printf("Tracking %d files\n", res.TrackedCount)

	if len(res.Modified) > 0 {
		fmt.Println("\nModified since last snapshot:")
		red := color.New(color.FgRed)
		for _, f := range res.Modified {
			red.Printf("  %s\n", f)
		}
	}

	if len(res.Untracked) > 0 {
		fmt.Println("\nUntracked:")
		yellow := color.New(color.FgYellow)
		for _, f := range res.Untracked {
			yellow.Printf("  %s\n", f)
		}
	}

	if len(res.Modified) == 0 && len(res.Untracked) == 0 {
		fmt.Println("\nWorking tree clean")
	}
}
