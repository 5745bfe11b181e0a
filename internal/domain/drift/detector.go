// Package drift compares a snapshot's numeric summary against a persisted
// baseline profile. The first run for a profile path creates the baseline
// and never flags drift against itself; later runs only compare and never
// rewrite the stored baseline.
package drift

import (
	"math"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// BuildProfile computes mean and sample standard deviation for every
// numeric column with at least one non-null value. Std is 0 when a column
// has a single value.
func BuildProfile(snap *domain.Snapshot) domain.Profile {
	profile := domain.Profile{Columns: make(map[string]domain.ColumnStats)}
	for _, col := range snap.Columns() {
		values := col.NonNullFloats()
		if len(values) == 0 {
			continue
		}
		profile.Columns[col.Name] = domain.ColumnStats{
			Mean: mean(values),
			Std:  sampleStd(values),
		}
	}
	return profile
}

// Detect profiles the snapshot and compares it against the baseline at
// cfg.Drift.ProfilePath (resolved by the caller into profilePath). When no
// baseline exists it persists the fresh profile and reports mode
// baseline_created with zero drifted columns.
//
// Columns with a baseline mean of exactly 0 are skipped entirely rather
// than falling back to absolute change; that blind spot is deliberate.
func Detect(snap *domain.Snapshot, cfg domain.PipelineConfig, store domain.BaselineStore, profilePath string) (domain.DriftReport, error) {
	tolerance := cfg.Drift.MeanRelativeTolerance
	if tolerance == 0 {
		tolerance = domain.DefaultMeanRelativeTolerance
	}

	current := BuildProfile(snap)

	if !store.Exists(profilePath) {
		if err := store.Save(profilePath, current); err != nil {
			return domain.DriftReport{}, err
		}
		return domain.DriftReport{Mode: domain.DriftBaselineCreated}, nil
	}

	baseline, err := store.Load(profilePath)
	if err != nil {
		return domain.DriftReport{}, err
	}

	report := domain.DriftReport{
		Mode:     domain.DriftComparison,
		Baseline: &baseline,
		Current:  &current,
	}

	// Snapshot column order, so reports follow the source layout like
	// every other per-column sequence.
	for _, col := range snap.Columns() {
		cur, ok := current.Columns[col.Name]
		if !ok {
			continue
		}
		base, ok := baseline.Columns[col.Name]
		if !ok {
			continue
		}
		if base.Mean == 0 {
			continue
		}

		change := math.Abs(cur.Mean-base.Mean) / math.Abs(base.Mean)
		if change > tolerance {
			report.DriftedColumns = append(report.DriftedColumns, domain.DriftedColumn{
				Column:         col.Name,
				BaselineMean:   base.Mean,
				CurrentMean:    cur.Mean,
				RelativeChange: change,
			})
		}
	}

	return report, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation, 0 for a single value.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
