package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var amendCmd = &cobra.Command{
	Use:   "amend",
	Short: "Correct the metadata of the latest snapshot",
	Long: `Write a corrected snapshot on top of the current head, reusing its
tree, and advance the branch to it. The original snapshot is never
modified or deleted and stays reachable in history.`,
	Run: runAmend,
}

var (
	amendPrompt   string
	amendResponse string
	amendPlan     []string
)

func init() {
	amendCmd.Flags().StringVarP(&amendPrompt, "prompt", "p", "", "Replacement prompt")
	amendCmd.Flags().StringVarP(&amendResponse, "response", "r", "", "Replacement response")
	amendCmd.Flags().StringArrayVar(&amendPlan, "plan", nil, "Replacement agent plan step (repeatable)")
}

func runAmend(cmd *cobra.Command, args []string) {
	if amendPrompt == "" && amendResponse == "" && len(amendPlan) == 0 {
		exitError("nothing to amend (use -p, -r or --plan)")
	}

	c := initWriteContext()
	defer c.Close()

	commit, err := core.Amend(c.Config, c.Store, c.Objects, core.AmendOptions{
		Prompt:    amendPrompt,
		Response:  amendResponse,
		AgentPlan: amendPlan,
	})
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("[%s] %s\n", commit.ShortID(), commit.Message)
}
