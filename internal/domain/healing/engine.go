// Package healing turns a failed quality report into configuration
// relaxations. Three fixed strategies run in order: row-count relaxation,
// null-fraction relaxation, required-flag softening. The engine is a pure
// function of its inputs: it mutates and returns a copy of the config, and
// persisting the result (only when changes were produced) is the caller's
// job.
package healing

import (
	"fmt"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// Heal applies the remediation strategies to cfg and returns the change
// descriptions in application order plus the mutated config.
//
// RequiredColumnHasNulls violations are intentionally not remediated: a
// column that is present but has nulls while still marked required is left
// for operator attention.
func Heal(report domain.QualityReport, cfg domain.PipelineConfig, caps domain.HealingCaps) domain.HealingResult {
	if caps.MaxNullFractionCap == 0 && caps.StepIncrease == 0 {
		caps = domain.DefaultHealingCaps()
	}

	out := cfg.Clone()
	var changes []string

	// Strategy 1: row-count relaxation. Never raises the minimum and only
	// records a change when it actually decreases.
	for _, v := range report.Violations {
		if _, ok := v.(domain.RowCountTooLow); !ok {
			continue
		}
		observed := report.RowCount
		if observed >= out.Quality.MinRows() {
			continue
		}
		prev := out.Quality.MinRows()
		newMin := max(0, observed)
		out.Quality.RowCountMin = &newMin
		changes = append(changes, fmt.Sprintf(
			"lowered quality.row_count_min from %d to %d (observed_rows=%d)", prev, newMin, observed))
	}

	// Strategies 2 and 3: per-column, grouped in first-appearance order.
	for _, col := range groupColumns(report.Violations) {
		for _, v := range violationsFor(report.Violations, col) {
			switch t := v.(type) {
			case domain.NullFractionExceeded:
				rule, ok := out.Rule(col)
				if !ok {
					continue
				}
				prev := t.MaxAllowed
				newMax := relaxedMax(prev, t.NullFraction, caps)
				rule.MaxNullFraction = &newMax
				out = out.WithRule(rule)
				changes = append(changes, fmt.Sprintf(
					"adjusted max_null_fraction for column %q from %.2f to %.2f (observed=%.2f)",
					col, prev, newMax, t.NullFraction))

			case domain.MissingColumn:
				rule, ok := out.Rule(col)
				if !ok || !rule.Required {
					continue // already softened: no change entry
				}
				rule.Required = false
				out = out.WithRule(rule)
				changes = append(changes, fmt.Sprintf(
					"column %q is missing in source; changed required from true to false", col))
			}
		}
	}

	return domain.HealingResult{Changes: changes, Config: out}
}

// relaxedMax computes min(cap, max(prev+step, observed+0.05)): a monotonic,
// capped relaxation that converges to the cap and cannot oscillate.
func relaxedMax(prev, observed float64, caps domain.HealingCaps) float64 {
	candidate := prev + caps.StepIncrease
	if floor := observed + 0.05; floor > candidate {
		candidate = floor
	}
	if candidate > caps.MaxNullFractionCap {
		candidate = caps.MaxNullFractionCap
	}
	return candidate
}

// groupColumns returns the distinct column names of column-level violations
// in first-appearance order.
func groupColumns(violations []domain.Violation) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, v := range violations {
		col := v.ColumnName()
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols
}

func violationsFor(violations []domain.Violation, col string) []domain.Violation {
	var out []domain.Violation
	for _, v := range violations {
		if v.ColumnName() == col {
			out = append(out, v)
		}
	}
	return out
}
