package domain

import (
	"fmt"
	"time"
)

// Stage names one pipeline stage execution for the audit trail.
type Stage string

const (
	StageConfig     Stage = "config"
	StageETL        Stage = "etl"
	StageValidation Stage = "validation"
	StageDrift      Stage = "drift"
	StageHealing    Stage = "healing"
	StageRetry      Stage = "retry"
)

// RunStatus is the terminal status of one stage or run.
type RunStatus string

const (
	StatusSuccess            RunStatus = "success"
	StatusFailed             RunStatus = "failed"
	StatusHealingApplied     RunStatus = "healing_actions_applied"
	StatusNoChanges          RunStatus = "no_changes"
	StatusHealedSuccess      RunStatus = "healed_success"
	StatusFailedAfterHealing RunStatus = "failed_after_healing"
)

// Incident is an immutable audit record of one pipeline stage's outcome.
// Only the run orchestrator creates incidents; the sink is append-only and
// this core never reads them back (the incidents command is display-only).
type Incident struct {
	RunID        string         `json:"run_id"`
	RunUID       string         `json:"run_uid"`
	Pipeline     string         `json:"pipeline_name"`
	Description  string         `json:"description"`
	Stage        Stage          `json:"stage"`
	Status       RunStatus      `json:"status"`
	ErrorType    string         `json:"error_type,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Report       *QualityReport `json:"issues,omitempty"`
	Drift        *DriftReport   `json:"drift,omitempty"`
	Healing      *HealingResult `json:"healing_actions,omitempty"`
	Revision     string         `json:"revision,omitempty"`
	RecordedAt   time.Time      `json:"recorded_at"`
}

// NewRunID builds a human-sortable run identifier like "run-2024-05-01T12:00:00Z".
func NewRunID(label string, now time.Time) string {
	if label == "" {
		label = "run"
	}
	return fmt.Sprintf("%s-%s", label, now.UTC().Format("2006-01-02T15:04:05Z"))
}

// RunResult is what one orchestrated run hands back to callers: the final
// outcome plus every report produced and every incident recorded, in order.
type RunResult struct {
	RunID     string         `json:"run_id"`
	Outcome   RunStatus      `json:"outcome"`
	Report    *QualityReport `json:"report,omitempty"`
	Drift     *DriftReport   `json:"drift,omitempty"`
	Healing   *HealingResult `json:"healing,omitempty"`
	Incidents []Incident     `json:"incidents"`
}

// Succeeded reports whether the run ended in a passing state.
func (r RunResult) Succeeded() bool {
	return r.Outcome == StatusSuccess || r.Outcome == StatusHealedSuccess
}
