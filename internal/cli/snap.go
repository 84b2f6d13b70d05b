package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Record an interaction as a snapshot",
	Long: `Record the current state of changed tracked files together with
the prompt, response and agent plan that produced them. With --files
only the named files are considered; otherwise every tracked file
modified since the last snapshot is included.`,
	Run: runSnap,
}

var (
	snapPrompt   string
	snapResponse string
	snapPlan     []string
	snapFiles    []string
	snapSession  string
	snapByUser   bool
)

func init() {
	snapCmd.Flags().StringVarP(&snapPrompt, "prompt", "p", "", "Prompt that produced this change")
	snapCmd.Flags().StringVarP(&snapResponse, "response", "r", "", "Agent response to record")
	snapCmd.Flags().StringArrayVar(&snapPlan, "plan", nil, "Agent plan step (repeatable)")
	snapCmd.Flags().StringSliceVar(&snapFiles, "files", nil, "Only snapshot these files")
	snapCmd.Flags().StringVar(&snapSession, "session", "", "Session id to group related snapshots")
	snapCmd.Flags().BoolVar(&snapByUser, "by-user", false, "Mark the snapshot as user-initiated")
}

func runSnap(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	commit, err := core.Snap(c.Config, c.Store, c.Objects, core.SnapOptions{
		Prompt:    snapPrompt,
		Response:  snapResponse,
		AgentPlan: snapPlan,
		Files:     snapFiles,
		Session:   snapSession,
		ByUser:    snapByUser,
	})
	if err != nil {
		if errors.Is(err, core.ErrNothingToSnapshot) {
			fmt.Println("Nothing to snapshot")
			return
		}
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("[%s %s] ", commit.Branch, commit.ShortID())
	fmt.Println(commit.Message)
	fmt.Printf("  %d files recorded\n", len(commit.Files))
}
