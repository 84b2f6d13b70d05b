package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
	"github.com/kvassbo/mnemo/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <commit>",
	Short: "Show a snapshot and its file changes",
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

var showDiff bool

func init() {
	showCmd.Flags().BoolVar(&showDiff, "diff", false, "Include the full diff text")
}

func runShow(cmd *cobra.Command, args []string) {
	c := initReadContext()
	defer c.Close()

	commit, changes, err := core.Show(c.Store, c.Objects, args[0])
	if err != nil {
		exitError("%v", err)
	}

	yellow := color.New(color.FgYellow)
	yellow.Printf("snapshot %s\n", commit.ID)
	fmt.Printf("Operation: %s\n", commit.Operation)
	fmt.Printf("Branch:    %s\n", commit.Branch)
	fmt.Printf("Date:      %s\n", commit.Timestamp.Format("Mon Jan 2 15:04:05 2006"))
	if commit.Session != "" {
		fmt.Printf("Session:   %s\n", commit.Session)
	}
	if commit.ByUser {
		fmt.Println("Source:    user")
	} else {
		fmt.Println("Source:    agent")
	}

	fmt.Printf("\n    %s\n", commit.Message)
	if commit.Prompt != "" && commit.Prompt != commit.Message {
		fmt.Printf("\n    Prompt: %s\n", commit.Prompt)
	}
	if commit.Response != "" {
		fmt.Printf("    Response: %s\n", commit.Response)
	}
	if len(commit.AgentPlan) > 0 {
		fmt.Println("    Plan:")
		for _, step := range commit.AgentPlan {
			fmt.Printf("      - %s\n", step)
		}
	}

	if len(changes) > 0 {
		fmt.Println()
		printChanges(changes, showDiff)
	}
}

func printChanges(changes []models.FileChange, withDiff bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, ch := range changes {
		switch ch.ChangeType {
		case models.ChangeAdded:
			green.Printf("  A %s", ch.Path)
		case models.ChangeDeleted:
			red.Printf("  D %s", ch.Path)
		default:
			yellow.Printf("  M %s", ch.Path)
		}
		fmt.Printf("  +%d -%d\n", ch.Additions, ch.Deletions)

		if withDiff && ch.DiffText != "" {
			fmt.Println(ch.DiffText)
		}
	}
}
