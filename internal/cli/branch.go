package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/core"
)

var branchCmd = &cobra.Command{
	Use:   "branch [name] [commit]",
	Short: "List or create branches",
	Long: `With no arguments, list all branches. With a name, create a branch
at the given snapshot (default: the current head) without switching.`,
	Args: cobra.MaximumNArgs(2),
	Run:  runBranch,
}

var branchDelete string

func init() {
	branchCmd.Flags().StringVarP(&branchDelete, "delete", "d", "", "Delete the named branch")
}

func runBranch(cmd *cobra.Command, args []string) {
	if branchDelete != "" {
		c := initWriteContext()
		defer c.Close()

		if err := core.DeleteBranch(c.Store, c.Objects, branchDelete); err != nil {
			exitError("%v", err)
		}
		fmt.Printf("Deleted branch %s\n", branchDelete)
		return
	}

	if len(args) == 0 {
		c := initReadContext()
		defer c.Close()

		branches, err := core.ListBranches(c.Store)
		if err != nil {
			exitError("%v", err)
		}

		green := color.New(color.FgGreen)
		for _, b := range branches {
			if b.Active {
				green.Printf("* %s", b.Name)
			} else {
				fmt.Printf("  %s", b.Name)
			}
			fmt.Printf("  %s\n", shortID(b.CommitID))
		}
		return
	}

	c := initWriteContext()
	defer c.Close()

	ref := ""
	if len(args) > 1 {
		ref = args[1]
	}
	b, err := core.CreateBranch(c.Store, c.Objects, args[0], ref)
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Created branch %s at %s\n", b.Name, shortID(b.CommitID))
}

var switchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Switch to another branch",
	Long: `Make a branch active and restore its head snapshot to the working
directory. Uncommitted changes block the switch unless discarded.`,
	Args: cobra.ExactArgs(1),
	Run:  runSwitch,
}

var switchDiscard bool

func init() {
	switchCmd.Flags().BoolVar(&switchDiscard, "discard", false, "Overwrite uncommitted changes instead of refusing")
}

func runSwitch(cmd *cobra.Command, args []string) {
	c := initWriteContext()
	defer c.Close()

	err := core.SwitchBranch(c.Config, c.Store, c.Objects, args[0], core.JumpOptions{Discard: switchDiscard})
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Switched to branch %s\n", args[0])
}
