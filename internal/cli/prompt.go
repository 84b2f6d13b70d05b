package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Record an interaction that changed no files",
	Long: `Record a prompt and response without any file changes. The
snapshot reuses the current tree, so the conversation stays on the
timeline in order.`,
	Run: runPrompt,
}

var (
	promptPrompt   string
	promptResponse string
	promptPlan     []string
	promptSession  string
	promptByUser   bool
)

func init() {
	promptCmd.Flags().StringVarP(&promptPrompt, "prompt", "p", "", "Prompt text")
	promptCmd.Flags().StringVarP(&promptResponse, "response", "r", "", "Agent response")
	promptCmd.Flags().StringArrayVar(&promptPlan, "plan", nil, "Agent plan step (repeatable)")
	promptCmd.Flags().StringVar(&promptSession, "session", "", "Session id to group related snapshots")
	promptCmd.Flags().BoolVar(&promptByUser, "by-user", false, "Mark the record as user-initiated")
}

func runPrompt(cmd *cobra.Command, args []string) {
	if promptPrompt == "" {
		exitError("a prompt is required (use -p)")
	}

	c := initWriteContext()
	defer c.Close()

	commit, err := core.PromptOnly(c.Config, c.Store, c.Objects, core.SnapOptions{
		Prompt:    promptPrompt,
		Response:  promptResponse,
		AgentPlan: promptPlan,
		Session:   promptSession,
		ByUser:    promptByUser,
	})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("[%s] %s\n", commit.ShortID(), commit.Message)
}
