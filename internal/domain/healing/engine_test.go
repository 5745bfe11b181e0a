package healing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintsugidata/kintsugi/internal/domain"
	"github.com/kintsugidata/kintsugi/internal/domain/healing"
)

func minRows(n int) *int { return &n }

func configWith(rules ...domain.ColumnRule) domain.PipelineConfig {
	return domain.PipelineConfig{
		Pipeline:   "orders",
		SourcePath: "orders.csv",
		Quality:    domain.QualitySettings{RowCountMin: minRows(5)},
		Columns:    rules,
	}
}

func TestHeal_PassingReportChangesNothing(t *testing.T) {
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat})

	result := healing.Heal(domain.QualityReport{RowCount: 10}, cfg, domain.HealingCaps{})

	assert.False(t, result.Applied())
	assert.Equal(t, cfg, result.Config)
}

func TestHeal_LowersRowCountMin(t *testing.T) {
	cfg := configWith()
	report := domain.QualityReport{
		RowCount:   2,
		Violations: []domain.Violation{domain.RowCountTooLow{Observed: 2, Minimum: 5}},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	require.True(t, result.Applied())
	assert.Equal(t, 2, result.Config.Quality.MinRows())
	assert.Equal(t,
		"lowered quality.row_count_min from 5 to 2 (observed_rows=2)",
		result.Changes[0])
}

func TestHeal_EmptyDatasetLowersToZero(t *testing.T) {
	cfg := configWith()
	report := domain.QualityReport{
		RowCount:   0,
		Violations: []domain.Violation{domain.RowCountTooLow{Observed: 0, Minimum: 5}},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	require.NotNil(t, result.Config.Quality.RowCountMin)
	assert.Equal(t, 0, *result.Config.Quality.RowCountMin, "zero is written explicitly, not left unset")
}

func TestHeal_RowCountNeverRaised(t *testing.T) {
	cfg := configWith()
	cfg.Quality.RowCountMin = minRows(1)
	report := domain.QualityReport{
		RowCount:   3,
		Violations: []domain.Violation{domain.RowCountTooLow{Observed: 3, Minimum: 5}},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	assert.False(t, result.Applied(), "stale violation against an already-lower minimum is ignored")
	assert.Equal(t, 1, result.Config.Quality.MinRows())
}

func TestHeal_RelaxesNullFraction(t *testing.T) {
	frac := 0.1
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.NullFractionExceeded{Column: "amount", NullFraction: 0.3, MaxAllowed: 0.1},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	require.True(t, result.Applied())
	rule, ok := result.Config.Rule("amount")
	require.True(t, ok)
	// max(0.1+0.2, 0.3+0.05) = 0.35
	assert.InDelta(t, 0.35, *rule.MaxNullFraction, 1e-9)
	assert.Equal(t,
		`adjusted max_null_fraction for column "amount" from 0.10 to 0.35 (observed=0.30)`,
		result.Changes[0])
}

func TestHeal_StepDominatesWhenObservedIsClose(t *testing.T) {
	frac := 0.1
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.NullFractionExceeded{Column: "amount", NullFraction: 0.12, MaxAllowed: 0.1},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	rule, _ := result.Config.Rule("amount")
	// max(0.1+0.2, 0.12+0.05) = 0.30
	assert.InDelta(t, 0.30, *rule.MaxNullFraction, 1e-9)
}

func TestHeal_NullFractionNeverExceedsCap(t *testing.T) {
	frac := 0.7
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.NullFractionExceeded{Column: "amount", NullFraction: 0.95, MaxAllowed: 0.7},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	rule, _ := result.Config.Rule("amount")
	assert.InDelta(t, 0.8, *rule.MaxNullFraction, 1e-9)
}

func TestHeal_CustomCaps(t *testing.T) {
	frac := 0.1
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.NullFractionExceeded{Column: "amount", NullFraction: 0.9, MaxAllowed: 0.1},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{MaxNullFractionCap: 0.5, StepIncrease: 0.1})

	rule, _ := result.Config.Rule("amount")
	assert.InDelta(t, 0.5, *rule.MaxNullFraction, 1e-9)
}

func TestHeal_SoftensRequiredForMissingColumn(t *testing.T) {
	cfg := configWith(domain.ColumnRule{Name: "customer_name", Type: domain.ColumnString, Required: true})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.MissingColumn{Column: "customer_name"},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	require.True(t, result.Applied())
	rule, _ := result.Config.Rule("customer_name")
	assert.False(t, rule.Required)
	assert.Equal(t,
		`column "customer_name" is missing in source; changed required from true to false`,
		result.Changes[0])
}

func TestHeal_SofteningIsIdempotent(t *testing.T) {
	cfg := configWith(domain.ColumnRule{Name: "customer_name", Type: domain.ColumnString, Required: false})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.MissingColumn{Column: "customer_name"},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	assert.False(t, result.Applied(), "already-optional column produces no change entry")
}

func TestHeal_RequiredColumnHasNullsIsNotRemediated(t *testing.T) {
	cfg := configWith(domain.ColumnRule{Name: "order_id", Type: domain.ColumnInt, Required: true})
	report := domain.QualityReport{
		RowCount: 10,
		Violations: []domain.Violation{
			domain.RequiredColumnHasNulls{Column: "order_id", NullFraction: 0.2},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	assert.False(t, result.Applied())
	rule, _ := result.Config.Rule("order_id")
	assert.True(t, rule.Required, "required flag is preserved for present-but-null columns")
}

func TestHeal_ChangeOrderFollowsStrategyThenColumnOrder(t *testing.T) {
	fracA := 0.1
	cfg := configWith(
		domain.ColumnRule{Name: "a", Type: domain.ColumnFloat, MaxNullFraction: &fracA},
		domain.ColumnRule{Name: "b", Type: domain.ColumnString, Required: true},
	)
	cfg.Quality.RowCountMin = minRows(5)
	report := domain.QualityReport{
		RowCount: 2,
		Violations: []domain.Violation{
			domain.RowCountTooLow{Observed: 2, Minimum: 5},
			domain.NullFractionExceeded{Column: "a", NullFraction: 0.5, MaxAllowed: 0.1},
			domain.MissingColumn{Column: "b"},
		},
	}

	result := healing.Heal(report, cfg, domain.HealingCaps{})

	require.Len(t, result.Changes, 3)
	assert.Contains(t, result.Changes[0], "row_count_min")
	assert.Contains(t, result.Changes[1], `max_null_fraction for column "a"`)
	assert.Contains(t, result.Changes[2], `column "b" is missing`)
}

func TestHeal_InputConfigUnchanged(t *testing.T) {
	frac := 0.1
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})
	report := domain.QualityReport{
		RowCount: 2,
		Violations: []domain.Violation{
			domain.RowCountTooLow{Observed: 2, Minimum: 5},
			domain.NullFractionExceeded{Column: "amount", NullFraction: 0.5, MaxAllowed: 0.1},
		},
	}

	_ = healing.Heal(report, cfg, domain.HealingCaps{})

	assert.Equal(t, 5, cfg.Quality.MinRows())
	assert.Equal(t, 0.1, *cfg.Columns[0].MaxNullFraction)
}

func TestHeal_ConvergesUnderRepeatedApplication(t *testing.T) {
	frac := 0.1
	cfg := configWith(domain.ColumnRule{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac})

	// Re-heal with the same observed fraction until the threshold passes it.
	observed := 0.9
	for i := 0; i < 5; i++ {
		rule, _ := cfg.Rule("amount")
		if observed <= *rule.MaxNullFraction {
			break
		}
		report := domain.QualityReport{
			RowCount: 10,
			Violations: []domain.Violation{
				domain.NullFractionExceeded{Column: "amount", NullFraction: observed, MaxAllowed: *rule.MaxNullFraction},
			},
		}
		cfg = healing.Heal(report, cfg, domain.HealingCaps{}).Config
	}

	rule, _ := cfg.Rule("amount")
	assert.InDelta(t, 0.8, *rule.MaxNullFraction, 1e-9, "relaxation converges to the cap")
}
