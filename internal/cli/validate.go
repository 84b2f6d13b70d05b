package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [commit]",
	Short: "Score snapshots against their stated intent",
	Long: `Check how well a snapshot's declared intent (prompt, response,
agent plan) matches its actual file changes. With --recent, validate
the latest snapshots on the active branch and report the mean score.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

var (
	validateRecent int
	validateReport bool
)

func init() {
	validateCmd.Flags().IntVar(&validateRecent, "recent", 0, "Validate the N most recent snapshots")
	validateCmd.Flags().BoolVar(&validateReport, "report", false, "Print the full issue and recommendation report")
}

func runValidate(cmd *cobra.Command, args []string) {
	c := initReadContext()
	defer c.Close()

	v := validate.New(c.Config.Validator, c.Store, c.Objects)

	if validateRecent > 0 {
		summary, err := v.Recent(validateRecent)
		if err != nil {
			exitError("%v", err)
		}

		for _, r := range summary.Results {
			printResult(r, validateReport)
		}
		fmt.Printf("Mean alignment score: %.2f (%d/%d aligned)\n",
			summary.MeanScore, summary.AlignedCount, len(summary.Results))
		return
	}

	var ref string
	if len(args) > 0 {
		ref = args[0]
	} else {
		head, err := c.Store.GetHEAD()
		if err != nil || head == "" {
			exitError("no snapshots to validate")
		}
		ref = head
	}

	r, err := v.Commit(ref)
	if err != nil {
		exitError("%v", err)
	}
	printResult(r, validateReport)
}

func printResult(r *models.ValidationResult, report bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Printf("%s  score %.2f  ", shortID(r.CommitID), r.AlignmentScore)
	if r.IsAligned {
		green.Println("aligned")
	} else {
		red.Println("misaligned")
	}

	if !report {
		return
	}

	fmt.Printf("  overlap %.2f | prompt %.2f | plan %.2f | size %.2f\n",
		r.OverlapScore, r.PromptScore, r.PlanScore, r.ChangeSizeScore)

	for _, issue := range r.Issues {
		red.Printf("  issue: %s\n", issue)
	}
	for _, rec := range r.Recommendations {
		fmt.Printf("  hint:  %s\n", rec)
	}
	fmt.Println()
}
