// Package cli implements the command-line interface for mnemo.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/lock"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	Store   *store.Store
	Objects objectstore.Store

	lk *lock.Lock
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
	if c.lk != nil {
		c.lk.Release()
	}
}

// initContext opens config, state database and object store for the
// enclosing project, holding the lock for the lifetime of the context.
// Writers take the exclusive lock, readers the shared one.
func initContext(exclusive bool) *cmdContext {
	wd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		exitError("not a mnemo project (run \"mnemo init\" first)")
	}

	lk := lock.New(cfg.LockPath())
	if exclusive {
		err = lk.AcquireExclusive()
	} else {
		err = lk.AcquireShared()
	}
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			exitError("another mnemo operation is in progress")
		}
		exitError("acquire lock: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		lk.Release()
		exitError("failed to open store: %v", err)
	}

	obj := objectstore.NewGitStore(cfg.ObjectsPath())

	return &cmdContext{Config: cfg, Store: st, Objects: obj, lk: lk}
}

func initReadContext() *cmdContext  { return initContext(false) }
func initWriteContext() *cmdContext { return initContext(true) }

var rootCmd = &cobra.Command{
	Use:   "mnemo",
	Short: "Memory for AI coding sessions",
	Long: `Mnemo records every human-agent interaction as an immutable snapshot:
the prompt, the agent's plan, and the resulting file changes, on a
timeline independent of your project's version control. Snapshots can
be inspected, diffed, validated against their stated intent, and
jumped back to without ever losing history.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(snapCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(amendCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(jumpCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 7 characters of an ID
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
