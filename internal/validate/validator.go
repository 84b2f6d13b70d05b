package validate

import (
	"fmt"
	"strings"

	"github.com/kvassbo/mnemo/internal/config"
	"github.com/kvassbo/mnemo/internal/models"
	"github.com/kvassbo/mnemo/internal/objectstore"
	"github.com/kvassbo/mnemo/internal/store"
)

// Validator scores commits against configurable weights and thresholds.
type Validator struct {
	cfg config.Validator
	st  *store.Store
	obj objectstore.Store
}

// New builds a validator over the given stores.
func New(cfg config.Validator, st *store.Store, obj objectstore.Store) *Validator {
	return &Validator{cfg: cfg, st: st, obj: obj}
}

// Commit validates a single commit by ref. A root commit is scored against
// its full tree; everything else against the diff to its parent.
func (v *Validator) Commit(ref string) (*models.ValidationResult, error) {
	id, err := v.obj.ResolveCommit(ref)
	if err != nil {
		return nil, err
	}

	tree, meta, parent, err := v.obj.GetCommit(id)
	if err != nil {
		return nil, err
	}

	changes, err := v.obj.Diff(parent, id)
	if err != nil {
		return nil, err
	}

	actual := make([]string, 0, len(changes))
	for _, c := range changes {
		actual = append(actual, c.Path)
	}
	if parent == "" && len(actual) == 0 {
		// Root commit against the empty tree: every file counts.
		for path := range tree {
			actual = append(actual, path)
		}
	}

	texts := append([]string{meta.Prompt, meta.Response}, meta.AgentPlan...)
	expected := ExtractFiles(texts...)

	matched, missing, unexpected := intersect(expected, actual)

	result := &models.ValidationResult{
		CommitID:        id,
		ExpectedFiles:   expected,
		ActualFiles:     actual,
		UnexpectedFiles: unexpected,
		MissingFiles:    missing,
		Changes:         changes,
		OverlapScore:    overlapScore(len(matched), len(actual)-len(unexpected), len(expected), len(actual)),
		PromptScore:     v.promptScore(meta.Prompt),
		PlanScore:       planScore(meta.AgentPlan),
		ChangeSizeScore: v.changeSizeScore(len(actual)),
	}

	score := v.cfg.OverlapWeight*result.OverlapScore +
		v.cfg.PromptWeight*result.PromptScore +
		v.cfg.PlanWeight*result.PlanScore +
		v.cfg.ChangeSizeWeight*result.ChangeSizeScore
	result.AlignmentScore = clamp01(score)
	result.IsAligned = result.AlignmentScore >= v.cfg.Threshold

	v.annotate(result, meta)
	return result, nil
}

// Recent validates the n most recent commits on the active branch and
// aggregates the mean score and aligned count.
func (v *Validator) Recent(n int) (*models.ValidationSummary, error) {
	head, err := v.st.GetHEAD()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return &models.ValidationSummary{}, nil
	}

	ids, err := v.obj.Ancestry(head, n)
	if err != nil {
		return nil, err
	}

	summary := &models.ValidationSummary{}
	var total float64
	for _, id := range ids {
		r, err := v.Commit(id)
		if err != nil {
			return nil, err
		}
		summary.Results = append(summary.Results, r)
		total += r.AlignmentScore
		if r.IsAligned {
			summary.AlignedCount++
		}
	}
	if len(summary.Results) > 0 {
		summary.MeanScore = total / float64(len(summary.Results))
	}
	return summary, nil
}

// overlapScore is the harmonic mean of precision and recall over the
// expected and actual file sets. Precision runs over actual paths, recall
// over expected references: one reference covering several paths counts
// every path it matched. No expectation means nothing to verify.
func overlapScore(matchedRefs, matchedPaths, expected, actual int) float64 {
	if expected == 0 {
		return 1.0
	}
	precision := 1.0
	if actual > 0 {
		precision = float64(matchedPaths) / float64(actual)
	}
	recall := float64(matchedRefs) / float64(expected)
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func (v *Validator) promptScore(prompt string) float64 {
	words := len(strings.Fields(prompt))
	switch {
	case words >= v.cfg.PromptGoodWords && len(prompt) >= v.cfg.PromptGoodChars:
		return 1.0
	case words >= v.cfg.PromptFairWords:
		return 0.5
	default:
		return 0.1
	}
}

func planScore(plan []string) float64 {
	if len(plan) > 0 {
		return 1.0
	}
	return 0.0
}

func (v *Validator) changeSizeScore(n int) float64 {
	if n >= 1 && n <= v.cfg.ChangeSizeCeiling {
		return 1.0
	}
	return clamp01(1.0 - 0.1*float64(n-v.cfg.ChangeSizeCeiling))
}

// annotate fills in issues and recommendations from the factor scores.
func (v *Validator) annotate(r *models.ValidationResult, meta *objectstore.Metadata) {
	for _, path := range r.UnexpectedFiles {
		r.Issues = append(r.Issues,
			fmt.Sprintf("file changed but never mentioned: %s", path))
	}
	for _, ref := range r.MissingFiles {
		r.Issues = append(r.Issues,
			fmt.Sprintf("file mentioned but not changed: %s", ref))
	}

	if r.PromptScore < 1.0 {
		r.Recommendations = append(r.Recommendations,
			"add more detail to the prompt describing the intended change")
	}
	if len(meta.AgentPlan) == 0 {
		r.Recommendations = append(r.Recommendations,
			"record an agent plan listing the intended file changes")
	}
	if r.ChangeSizeScore < 1.0 {
		r.Recommendations = append(r.Recommendations,
			"split large changes into smaller, focused snapshots")
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
