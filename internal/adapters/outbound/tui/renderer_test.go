package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
	"github.com/kintsugidata/kintsugi/internal/domain"
)

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "customer name", tui.ColumnLabel("customer_name"))
	assert.Equal(t, "order id", tui.ColumnLabel("orderId"))
	assert.Equal(t, "unit price usd", tui.ColumnLabel("unitPrice_usd"))
	assert.Equal(t, "amount", tui.ColumnLabel("amount"))
	assert.Equal(t, "__", tui.ColumnLabel("__"))
}

func TestRenderQualityReport_Passing(t *testing.T) {
	out := tui.RenderQualityReport(domain.QualityReport{
		RowCount:      5,
		NullFractions: map[string]float64{"amount": 0},
	})

	assert.Contains(t, out, "Data Quality")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "All quality checks passed.")
}

func TestRenderQualityReport_Violations(t *testing.T) {
	out := tui.RenderQualityReport(domain.QualityReport{
		RowCount: 2,
		Violations: []domain.Violation{
			domain.RowCountTooLow{Observed: 2, Minimum: 5},
			domain.MissingColumn{Column: "amount"},
		},
	})

	assert.Contains(t, out, "2 violation(s)")
	assert.Contains(t, out, "row count 2 < minimum 5")
	assert.Contains(t, out, `column "amount" not found in snapshot`)
}

func TestRenderDriftReport(t *testing.T) {
	created := tui.RenderDriftReport(domain.DriftReport{Mode: domain.DriftBaselineCreated})
	assert.Contains(t, created, "baseline created")

	clean := tui.RenderDriftReport(domain.DriftReport{Mode: domain.DriftComparison})
	assert.Contains(t, clean, "No significant drift")

	drifted := tui.RenderDriftReport(domain.DriftReport{
		Mode: domain.DriftComparison,
		DriftedColumns: []domain.DriftedColumn{
			{Column: "amount", BaselineMean: 10, CurrentMean: 25, RelativeChange: 1.5},
		},
	})
	assert.Contains(t, drifted, "amount")
	assert.Contains(t, drifted, "150% change")
}

func TestRenderHealingResult(t *testing.T) {
	empty := tui.RenderHealingResult(domain.HealingResult{})
	assert.Contains(t, empty, "No configuration changes")

	applied := tui.RenderHealingResult(domain.HealingResult{
		Changes: []string{"lowered quality.row_count_min from 5 to 2 (observed_rows=2)"},
	})
	assert.Contains(t, applied, "lowered quality.row_count_min")
}

func TestRenderRunResult(t *testing.T) {
	out := tui.RenderRunResult(&domain.RunResult{
		RunID:   "run-2024-05-01T12:00:00Z",
		Outcome: domain.StatusHealedSuccess,
		Report:  &domain.QualityReport{RowCount: 2},
		Healing: &domain.HealingResult{Changes: []string{"lowered quality.row_count_min from 5 to 2 (observed_rows=2)"}},
		Drift:   &domain.DriftReport{Mode: domain.DriftBaselineCreated},
		Incidents: []domain.Incident{
			{RunID: "run-2024-05-01T12:00:00Z", Stage: domain.StageValidation, Status: domain.StatusFailed, ErrorType: domain.ErrorTypeQuality},
			{RunID: "run-2024-05-01T12:00:00Z", Stage: domain.StageRetry, Status: domain.StatusHealedSuccess},
		},
	})

	assert.Contains(t, out, "kintsugi")
	assert.Contains(t, out, "healed_success")
	assert.Contains(t, out, "validation")
	assert.Contains(t, out, "QualityValidationFailure")
}

func TestRenderIncidents(t *testing.T) {
	empty := tui.RenderIncidents(nil)
	assert.Contains(t, empty, "No incidents recorded.")

	out := tui.RenderIncidents([]domain.Incident{
		{RunID: "run-1", Stage: domain.StageDrift, Status: domain.StatusSuccess},
	})
	assert.Contains(t, out, "Incidents")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "drift")
}
