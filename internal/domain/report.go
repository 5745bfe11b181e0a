package domain

import (
	"encoding/json"
	"fmt"
)

// ViolationKind tags the closed set of quality violations.
type ViolationKind string

const (
	KindRowCountTooLow         ViolationKind = "row_count_too_low"
	KindMissingColumn          ViolationKind = "missing_column"
	KindRequiredColumnHasNulls ViolationKind = "required_column_has_nulls"
	KindNullFractionExceeded   ViolationKind = "null_fraction_exceeded"
)

// Violation is a single structured finding describing one way a snapshot
// failed a quality rule. The set of implementations is closed; the healing
// engine dispatches on the concrete type.
type Violation interface {
	Kind() ViolationKind
	// ColumnName is empty for dataset-level violations.
	ColumnName() string
	Describe() string
}

// RowCountTooLow reports a dataset smaller than quality.row_count_min.
type RowCountTooLow struct {
	Observed int `json:"observed"`
	Minimum  int `json:"minimum"`
}

func (v RowCountTooLow) Kind() ViolationKind { return KindRowCountTooLow }
func (v RowCountTooLow) ColumnName() string  { return "" }
func (v RowCountTooLow) Describe() string {
	return fmt.Sprintf("row count %d < minimum %d", v.Observed, v.Minimum)
}

// MissingColumn reports a configured column absent from the snapshot.
type MissingColumn struct {
	Column string `json:"column"`
}

func (v MissingColumn) Kind() ViolationKind { return KindMissingColumn }
func (v MissingColumn) ColumnName() string  { return v.Column }
func (v MissingColumn) Describe() string {
	return fmt.Sprintf("column %q not found in snapshot", v.Column)
}

// RequiredColumnHasNulls reports nulls in a column marked required.
type RequiredColumnHasNulls struct {
	Column       string  `json:"column"`
	NullFraction float64 `json:"null_fraction"`
}

func (v RequiredColumnHasNulls) Kind() ViolationKind { return KindRequiredColumnHasNulls }
func (v RequiredColumnHasNulls) ColumnName() string  { return v.Column }
func (v RequiredColumnHasNulls) Describe() string {
	return fmt.Sprintf("required column %q has nulls (fraction %.2f)", v.Column, v.NullFraction)
}

// NullFractionExceeded reports a null fraction above the configured maximum.
type NullFractionExceeded struct {
	Column       string  `json:"column"`
	NullFraction float64 `json:"null_fraction"`
	MaxAllowed   float64 `json:"max_null_fraction"`
}

func (v NullFractionExceeded) Kind() ViolationKind { return KindNullFractionExceeded }
func (v NullFractionExceeded) ColumnName() string  { return v.Column }
func (v NullFractionExceeded) Describe() string {
	return fmt.Sprintf("column %q null fraction %.2f > allowed %.2f", v.Column, v.NullFraction, v.MaxAllowed)
}

// QualityReport is the immutable result of one validation pass. Violations
// keep insertion order: the row-count check first, then one pass per
// configured column in declaration order.
type QualityReport struct {
	RowCount      int
	NullFractions map[string]float64
	Violations    []Violation
}

// Passing reports whether the snapshot satisfied every rule.
func (r QualityReport) Passing() bool { return len(r.Violations) == 0 }

// violationEnvelope is the serialized form of a Violation, tagged by kind.
type violationEnvelope struct {
	Kind         ViolationKind `json:"kind"`
	Message      string        `json:"message"`
	Column       string        `json:"column,omitempty"`
	Observed     *int          `json:"observed,omitempty"`
	Minimum      *int          `json:"minimum,omitempty"`
	NullFraction *float64      `json:"null_fraction,omitempty"`
	MaxAllowed   *float64      `json:"max_null_fraction,omitempty"`
}

type reportJSON struct {
	RowCount      int                 `json:"row_count"`
	NullFractions map[string]float64  `json:"null_fractions"`
	Violations    []violationEnvelope `json:"violations"`
}

// MarshalJSON serializes the report with kind-tagged violations.
func (r QualityReport) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		RowCount:      r.RowCount,
		NullFractions: r.NullFractions,
		Violations:    make([]violationEnvelope, 0, len(r.Violations)),
	}
	if out.NullFractions == nil {
		out.NullFractions = map[string]float64{}
	}
	for _, v := range r.Violations {
		env := violationEnvelope{Kind: v.Kind(), Message: v.Describe(), Column: v.ColumnName()}
		switch t := v.(type) {
		case RowCountTooLow:
			env.Observed, env.Minimum = &t.Observed, &t.Minimum
		case RequiredColumnHasNulls:
			env.NullFraction = &t.NullFraction
		case NullFractionExceeded:
			env.NullFraction, env.MaxAllowed = &t.NullFraction, &t.MaxAllowed
		}
		out.Violations = append(out.Violations, env)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the tagged violation variants.
func (r *QualityReport) UnmarshalJSON(data []byte) error {
	var in reportJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.RowCount = in.RowCount
	r.NullFractions = in.NullFractions
	r.Violations = nil
	for _, env := range in.Violations {
		v, err := env.violation()
		if err != nil {
			return err
		}
		r.Violations = append(r.Violations, v)
	}
	return nil
}

func (e violationEnvelope) violation() (Violation, error) {
	switch e.Kind {
	case KindRowCountTooLow:
		v := RowCountTooLow{}
		if e.Observed != nil {
			v.Observed = *e.Observed
		}
		if e.Minimum != nil {
			v.Minimum = *e.Minimum
		}
		return v, nil
	case KindMissingColumn:
		return MissingColumn{Column: e.Column}, nil
	case KindRequiredColumnHasNulls:
		v := RequiredColumnHasNulls{Column: e.Column}
		if e.NullFraction != nil {
			v.NullFraction = *e.NullFraction
		}
		return v, nil
	case KindNullFractionExceeded:
		v := NullFractionExceeded{Column: e.Column}
		if e.NullFraction != nil {
			v.NullFraction = *e.NullFraction
		}
		if e.MaxAllowed != nil {
			v.MaxAllowed = *e.MaxAllowed
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown violation kind %q", e.Kind)
	}
}
