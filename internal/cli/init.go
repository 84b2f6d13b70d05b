package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a memory store for this project",
	Long: `Initialize a mnemo memory store in the current directory.
This creates a .mnemo directory, tracks all project files not excluded
by .mnemoignore, and records them as the root snapshot.`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	wd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}

	if _, err := config.FindRoot(wd); err == nil {
		exitError("mnemo project already exists")
	}

	fmt.Printf("Initializing mnemo memory store...\n")

	res, err := core.Init(wd)
	if err != nil {
		exitError("failed to initialize: %v", err)
	}

	fmt.Printf("Tracked %d files in root snapshot %s\n",
		res.TrackedCount, res.RootCommit.ShortID())
	fmt.Printf("\nInitialized empty memory store in %s/\n", config.MnemoDir)
}
