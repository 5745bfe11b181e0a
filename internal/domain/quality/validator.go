// Package quality evaluates a snapshot against the configured column and
// row rules. Validation never errors on data content: a snapshot that
// breaks rules is a normal outcome represented by a non-empty violation
// list, and the enforcement decision belongs to a higher layer.
package quality

import (
	"github.com/kintsugidata/kintsugi/internal/domain"
)

// Validate runs all quality checks and returns the report. Evaluation
// order is fixed and observable in the violation sequence: the row-count
// check first, then one pass per configured column in declaration order.
// A single column may contribute multiple violations in one pass.
func Validate(snap *domain.Snapshot, cfg domain.PipelineConfig) domain.QualityReport {
	report := domain.QualityReport{
		RowCount:      snap.RowCount(),
		NullFractions: make(map[string]float64),
	}

	if snap.RowCount() < cfg.Quality.MinRows() {
		report.Violations = append(report.Violations, domain.RowCountTooLow{
			Observed: snap.RowCount(),
			Minimum:  cfg.Quality.MinRows(),
		})
	}

	for _, rule := range cfg.Columns {
		if !snap.HasColumn(rule.Name) {
			report.Violations = append(report.Violations, domain.MissingColumn{Column: rule.Name})
			continue
		}

		// Recorded regardless of pass/fail.
		fraction := snap.NullFraction(rule.Name)
		report.NullFractions[rule.Name] = fraction

		if rule.Required && fraction > 0 {
			report.Violations = append(report.Violations, domain.RequiredColumnHasNulls{
				Column:       rule.Name,
				NullFraction: fraction,
			})
		}

		if rule.MaxNullFraction != nil && fraction > *rule.MaxNullFraction {
			report.Violations = append(report.Violations, domain.NullFractionExceeded{
				Column:       rule.Name,
				NullFraction: fraction,
				MaxAllowed:   *rule.MaxNullFraction,
			})
		}
	}

	return report
}

// Enforce wraps Validate for callers that treat violations as a failure:
// it returns the report alongside a *domain.QualityError when the report
// is non-passing.
func Enforce(snap *domain.Snapshot, cfg domain.PipelineConfig) (domain.QualityReport, error) {
	report := Validate(snap, cfg)
	if !report.Passing() {
		return report, &domain.QualityError{Report: report}
	}
	return report, nil
}
