package models

// ValidationResult scores how well a commit's stated intent matches its
// actual file changes. Derived, never stored.
type ValidationResult struct {
	CommitID        string       `json:"commit_id"`
	AlignmentScore  float64      `json:"alignment_score"`
	IsAligned       bool         `json:"is_aligned"`
	OverlapScore    float64      `json:"overlap_score"`
	PromptScore     float64      `json:"prompt_score"`
	PlanScore       float64      `json:"plan_score"`
	ChangeSizeScore float64      `json:"change_size_score"`
	ExpectedFiles   []string     `json:"expected_files"`
	ActualFiles     []string     `json:"actual_files"`
	UnexpectedFiles []string     `json:"unexpected_files"`
	MissingFiles    []string     `json:"missing_files"`
	Changes         []FileChange `json:"changes,omitempty"`
	Issues          []string     `json:"issues"`
	Recommendations []string     `json:"recommendations"`
}

// ValidationSummary aggregates the results of validating several commits.
type ValidationSummary struct {
	Results      []*ValidationResult `json:"results"`
	MeanScore    float64             `json:"mean_score"`
	AlignedCount int                 `json:"aligned_count"`
}
