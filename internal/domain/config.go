package domain

import "fmt"

// ColumnType identifies how a source column is coerced during loading.
type ColumnType string

const (
	ColumnInt    ColumnType = "int"
	ColumnFloat  ColumnType = "float"
	ColumnString ColumnType = "string"
)

// ValidColumnTypes enumerates all recognized column types.
var ValidColumnTypes = []ColumnType{ColumnInt, ColumnFloat, ColumnString}

// IsNumeric reports whether values of this type participate in drift profiling.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnInt || t == ColumnFloat
}

// ColumnRule declares the quality contract for a single source column.
// Pointer MaxNullFraction distinguishes "not specified" from zero.
type ColumnRule struct {
	Name            string     `yaml:"name"                        json:"name"`
	Type            ColumnType `yaml:"type"                        json:"type"`
	Required        bool       `yaml:"required"                    json:"required"`
	MaxNullFraction *float64   `yaml:"max_null_fraction,omitempty" json:"max_null_fraction,omitempty"`
}

// QualitySettings holds dataset-level quality thresholds. Pointer
// RowCountMin distinguishes "not specified" from an explicit zero, which
// healing may write and which must survive a reload.
type QualitySettings struct {
	RowCountMin *int `yaml:"row_count_min,omitempty" json:"row_count_min,omitempty"`
}

// MinRows returns the effective row-count minimum.
func (q QualitySettings) MinRows() int {
	if q.RowCountMin == nil {
		return DefaultRowCountMin
	}
	return *q.RowCountMin
}

// DriftSettings controls drift detection against the persisted baseline.
type DriftSettings struct {
	ProfilePath           string  `yaml:"profile_path"            json:"profile_path"`
	MeanRelativeTolerance float64 `yaml:"mean_relative_tolerance" json:"mean_relative_tolerance"`
}

const (
	// DefaultProfilePath is where the reference profile lives relative to the pipeline dir.
	DefaultProfilePath = "data/metadata/reference_profile.json"

	// DefaultMeanRelativeTolerance flags a column when its mean moves by more than 50%.
	DefaultMeanRelativeTolerance = 0.5

	// DefaultRowCountMin applies when quality.row_count_min is absent.
	DefaultRowCountMin = 1
)

// PipelineConfig is the full governing configuration for one pipeline,
// loaded from pipeline.yaml. Column order is declaration order and drives
// the evaluation order of per-column quality checks.
//
// The config is a value type: the healing engine returns a mutated copy and
// the orchestrator threads the latest value explicitly; only the config
// store persists it between runs.
type PipelineConfig struct {
	Pipeline     string          `yaml:"pipeline"                json:"pipeline"`
	SourcePath   string          `yaml:"source_path"             json:"source_path"`
	TableName    string          `yaml:"table_name"              json:"table_name"`
	WarehouseDSN string          `yaml:"warehouse_dsn,omitempty" json:"warehouse_dsn,omitempty"`
	Quality      QualitySettings `yaml:"quality"                 json:"quality"`
	Drift        DriftSettings   `yaml:"drift"                   json:"drift"`
	Columns      []ColumnRule    `yaml:"columns"                 json:"columns"`
}

// ApplyDefaults fills unset fields with documented defaults.
func (c *PipelineConfig) ApplyDefaults() {
	if c.Pipeline == "" {
		c.Pipeline = "pipeline"
	}
	if c.Quality.RowCountMin == nil {
		v := DefaultRowCountMin
		c.Quality.RowCountMin = &v
	}
	if c.Drift.ProfilePath == "" {
		c.Drift.ProfilePath = DefaultProfilePath
	}
	if c.Drift.MeanRelativeTolerance == 0 {
		c.Drift.MeanRelativeTolerance = DefaultMeanRelativeTolerance
	}
}

// Validate checks the config invariants and returns a descriptive error.
func (c PipelineConfig) Validate() error {
	if c.SourcePath == "" {
		return &ConfigError{Reason: "source_path must not be empty"}
	}
	if c.Quality.RowCountMin != nil && *c.Quality.RowCountMin < 0 {
		return &ConfigError{Reason: fmt.Sprintf("quality.row_count_min must be >= 0 (got %d)", *c.Quality.RowCountMin)}
	}
	if c.Drift.MeanRelativeTolerance < 0 {
		return &ConfigError{Reason: fmt.Sprintf("drift.mean_relative_tolerance must be >= 0 (got %.2f)", c.Drift.MeanRelativeTolerance)}
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, rule := range c.Columns {
		if rule.Name == "" {
			return &ConfigError{Reason: fmt.Sprintf("columns[%d].name must not be empty", i)}
		}
		if seen[rule.Name] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate column rule %q", rule.Name)}
		}
		seen[rule.Name] = true

		if !isValidColumnType(rule.Type) {
			return &ConfigError{Reason: fmt.Sprintf("unknown type %q for column %q (valid: int, float, string)", rule.Type, rule.Name)}
		}
		if rule.MaxNullFraction != nil && (*rule.MaxNullFraction < 0 || *rule.MaxNullFraction > 1) {
			return &ConfigError{Reason: fmt.Sprintf("columns[%q].max_null_fraction must be in [0,1] (got %.2f)", rule.Name, *rule.MaxNullFraction)}
		}
	}

	return nil
}

// Rule returns the rule declared for the named column.
func (c PipelineConfig) Rule(name string) (ColumnRule, bool) {
	for _, r := range c.Columns {
		if r.Name == name {
			return r, true
		}
	}
	return ColumnRule{}, false
}

// Clone returns a deep copy safe to mutate independently.
func (c PipelineConfig) Clone() PipelineConfig {
	out := c
	if c.Quality.RowCountMin != nil {
		v := *c.Quality.RowCountMin
		out.Quality.RowCountMin = &v
	}
	out.Columns = make([]ColumnRule, len(c.Columns))
	for i, r := range c.Columns {
		out.Columns[i] = r
		if r.MaxNullFraction != nil {
			v := *r.MaxNullFraction
			out.Columns[i].MaxNullFraction = &v
		}
	}
	return out
}

// WithRule replaces the rule with the same name, preserving declaration order.
func (c PipelineConfig) WithRule(rule ColumnRule) PipelineConfig {
	out := c.Clone()
	for i, r := range out.Columns {
		if r.Name == rule.Name {
			out.Columns[i] = rule
			return out
		}
	}
	out.Columns = append(out.Columns, rule)
	return out
}

func isValidColumnType(t ColumnType) bool {
	for _, v := range ValidColumnTypes {
		if t == v {
			return true
		}
	}
	return false
}
