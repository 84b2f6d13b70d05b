package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
	"github.com/kvassbo/mnemo/internal/models"
)

var historyCmd = &cobra.Command{
	Use:     "history [commit]",
	Aliases: []string{"log"},
	Short:   "Show the snapshot timeline",
	Long: `Walk the timeline from the given snapshot (default: the active
branch head) back toward the root.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

var (
	historyOneline bool
	historyLimit   int
)

func init() {
	historyCmd.Flags().BoolVar(&historyOneline, "oneline", false, "Show each snapshot on a single line")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Limit the number of snapshots to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	c := initReadContext()
	defer c.Close()

	start := ""
	if len(args) > 0 {
		start = args[0]
	}

	commits, err := core.History(c.Store, c.Objects, historyLimit, start)
	if err != nil {
		exitError("%v", err)
	}

	if len(commits) == 0 {
		fmt.Println("No snapshots yet")
		return
	}

	head, _ := c.Store.GetHEAD()
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)

	for _, commit := range commits {
		if historyOneline {
			yellow.Printf("%s ", commit.ShortID())
			if commit.ID == head {
				cyan.Print("(HEAD) ")
			}
			magenta.Printf("[%s] ", commit.Operation)
			fmt.Println(commit.Message)
			continue
		}

		yellow.Printf("snapshot %s", commit.ID)
		if commit.ID == head {
			cyan.Print(" (HEAD)")
		}
		fmt.Println()
		fmt.Printf("Operation: %s\n", commit.Operation)
		fmt.Printf("Date:      %s\n", commit.Timestamp.Format("Mon Jan 2 15:04:05 2006"))
		if commit.Session != "" {
			fmt.Printf("Session:   %s\n", commit.Session)
		}
		fmt.Printf("\n    %s\n", commit.Message)
		printInteraction(commit)
		fmt.Println()
	}
}

func printInteraction(commit *models.Commit) {
	if commit.Prompt != "" && commit.Prompt != commit.Message {
		fmt.Printf("    Prompt: %s\n", commit.Prompt)
	}
	if len(commit.AgentPlan) > 0 {
		fmt.Println("    Plan:")
		for _, step := range commit.AgentPlan {
			fmt.Printf("      - %s\n", step)
		}
	}
	if len(commit.Files) > 0 {
		fmt.Printf("    (%d files)\n", len(commit.Files))
	}
}
