package domain

// ColumnStats is the persisted numeric summary of one column.
type ColumnStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Profile is the numeric summary of a snapshot: one ColumnStats per numeric
// column with at least one non-null value. The persisted reference profile
// (the baseline) is frozen once created.
type Profile struct {
	Columns map[string]ColumnStats `json:"columns"`
}

// DriftMode distinguishes a first run (baseline creation) from a comparison.
type DriftMode string

const (
	DriftBaselineCreated DriftMode = "baseline_created"
	DriftComparison      DriftMode = "comparison"
)

// DriftedColumn records one column whose mean moved beyond tolerance.
type DriftedColumn struct {
	Column         string  `json:"column"`
	BaselineMean   float64 `json:"base_mean"`
	CurrentMean    float64 `json:"current_mean"`
	RelativeChange float64 `json:"relative_change"`
}

// DriftReport is the result of one drift detection pass. Both profiles are
// carried for audit when mode is comparison.
type DriftReport struct {
	Mode           DriftMode       `json:"mode"`
	DriftedColumns []DriftedColumn `json:"drifted_columns"`
	Baseline       *Profile        `json:"baseline,omitempty"`
	Current        *Profile        `json:"current,omitempty"`
}

// Drifted reports whether any column exceeded tolerance.
func (r DriftReport) Drifted() bool { return len(r.DriftedColumns) > 0 }
