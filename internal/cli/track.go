package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var trackCmd = &cobra.Command{
	Use:   "track <path>...",
	Short: "Start tracking files",
	Long: `Add files or directories to the tracked set and record their
current content as a snapshot.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runTrack,
}

var (
	trackPrompt   string
	trackResponse string
	trackSession  string
	trackByUser   bool
)

func init() {
	trackCmd.Flags().StringVarP(&trackPrompt, "prompt", "p", "", "Prompt that led to this operation")
	trackCmd.Flags().StringVarP(&trackResponse, "response", "r", "", "Agent response to record")
	trackCmd.Flags().StringVar(&trackSession, "session", "", "Session id to group related snapshots")
	trackCmd.Flags().BoolVar(&trackByUser, "by-user", false, "Mark the operation as user-initiated")
}

func runTrack(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	commit, err := core.Track(c.Config, c.Store, c.Objects, args, core.OpMeta{
		Prompt:   trackPrompt,
		Response: trackResponse,
		Session:  trackSession,
		ByUser:   trackByUser,
	})
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("[%s] ", commit.ShortID())
	fmt.Printf("tracking %d files\n", len(commit.Files))
	for _, f := range commit.Files {
		fmt.Printf("  %s\n", f)
	}
}
