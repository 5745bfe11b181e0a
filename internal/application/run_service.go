package application

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kintsugidata/kintsugi/internal/domain"
	"github.com/kintsugidata/kintsugi/internal/domain/drift"
	"github.com/kintsugidata/kintsugi/internal/domain/healing"
	"github.com/kintsugidata/kintsugi/internal/domain/quality"
)

// RunDeps wires the orchestrator to its collaborators. Warehouse and
// Revisions are optional; Log, Now and Caps default when zero.
type RunDeps struct {
	Source    domain.SnapshotSource
	Configs   domain.ConfigStore
	Baselines domain.BaselineStore
	Incidents domain.IncidentSink
	Warehouse domain.WarehouseWriter
	Revisions domain.RevisionReader
	BaseDir   string
	Caps      domain.HealingCaps
	Log       *zap.Logger
	Now       func() time.Time
}

// RunService sequences one pipeline run: validate, then drift on success,
// or heal and retry exactly once on quality failure. It is the only
// component that creates incident records.
type RunService struct {
	deps RunDeps
}

// NewRunService creates the orchestrator.
func NewRunService(deps RunDeps) *RunService {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Caps == (domain.HealingCaps{}) {
		deps.Caps = domain.DefaultHealingCaps()
	}
	return &RunService{deps: deps}
}

// RunOptions names one run for the audit trail.
type RunOptions struct {
	Label       string
	Description string
}

// runState enumerates the orchestrator's state machine. Transitions:
//
//	start -> validating -> passed -> driftChecking -> done(success)
//	                    -> qualityFailed -> healing -> healed -> retrying -> done(healed_success|failed_after_healing)
//	                                                -> noChanges -> done(failed)
//
// Any unexpected error short-circuits to done(failed) with its
// classification recorded; there is no retry loop beyond the single
// post-healing attempt.
type runState int

const (
	stateStart runState = iota
	stateValidating
	statePassed
	stateQualityFailed
	stateDriftChecking
	stateHealing
	stateHealed
	stateNoChanges
	stateRetrying
	stateDone
)

// run carries the mutable state threaded through one state-machine pass.
type run struct {
	id       string
	uid      string
	pipeline string
	desc     string
	revision string

	cfg        domain.PipelineConfig
	snap       *domain.Snapshot
	report     *domain.QualityReport
	qualityErr error
	drift      *domain.DriftReport
	healing    *domain.HealingResult

	outcome   domain.RunStatus
	incidents []domain.Incident
}

// Run executes the full state machine for one pipeline run. The returned
// result always carries a terminal outcome; errors in collaborators are
// folded into the outcome and audit trail rather than returned raw.
func (s *RunService) Run(ctx context.Context, opts RunOptions) (*domain.RunResult, error) {
	r := &run{
		id:   domain.NewRunID(opts.Label, s.deps.Now()),
		uid:  uuid.NewString(),
		desc: opts.Description,
	}
	if s.deps.Revisions != nil {
		r.revision = s.deps.Revisions.Head(s.deps.BaseDir)
	}

	log := s.deps.Log.With(zap.String("run_id", r.id))
	log.Info("starting pipeline run")

	state := stateStart
	for state != stateDone {
		switch state {
		case stateStart:
			cfg, err := s.deps.Configs.Load()
			if err != nil {
				log.Error("loading configuration failed", zap.Error(err))
				s.fail(r, domain.StageConfig, domain.StatusFailed, err)
				state = stateDone
				continue
			}
			r.cfg = cfg
			r.pipeline = cfg.Pipeline

			if r.snap, err = s.pullSnapshot(ctx, cfg); err != nil {
				log.Error("etl failed", zap.Error(err))
				s.fail(r, domain.StageETL, domain.StatusFailed, err)
				state = stateDone
				continue
			}
			log.Info("snapshot loaded", zap.Int("rows", r.snap.RowCount()))
			state = stateValidating

		case stateValidating:
			report, err := quality.Enforce(r.snap, r.cfg)
			r.report = &report
			r.qualityErr = err
			if err == nil {
				log.Info("data quality checks passed")
				state = statePassed
			} else {
				log.Warn("data quality checks failed", zap.Int("violations", len(report.Violations)))
				state = stateQualityFailed
			}

		case statePassed:
			s.record(r, domain.Incident{
				Stage:  domain.StageValidation,
				Status: domain.StatusSuccess,
				Report: r.report,
			})
			state = stateDriftChecking

		case stateQualityFailed:
			s.record(r, domain.Incident{
				Stage:        domain.StageValidation,
				Status:       domain.StatusFailed,
				ErrorType:    domain.ClassifyError(r.qualityErr),
				ErrorMessage: r.qualityErr.Error(),
				Report:       r.report,
			})
			state = stateHealing

		case stateDriftChecking:
			report, err := drift.Detect(r.snap, r.cfg, s.deps.Baselines, s.profilePath(r.cfg))
			if err != nil {
				log.Error("drift detection failed", zap.Error(err))
				s.fail(r, domain.StageDrift, domain.StatusFailed, err)
				state = stateDone
				continue
			}
			r.drift = &report
			log.Info("drift detection completed",
				zap.String("mode", string(report.Mode)),
				zap.Int("drifted_columns", len(report.DriftedColumns)))
			s.record(r, domain.Incident{
				Stage:  domain.StageDrift,
				Status: domain.StatusSuccess,
				Report: r.report,
				Drift:  r.drift,
			})
			r.outcome = domain.StatusSuccess
			state = stateDone

		case stateHealing:
			result := healing.Heal(*r.report, r.cfg, s.deps.Caps)
			r.healing = &result
			if result.Applied() {
				log.Info("healing applied configuration changes", zap.Strings("changes", result.Changes))
				s.record(r, domain.Incident{
					Stage:   domain.StageHealing,
					Status:  domain.StatusHealingApplied,
					Report:  r.report,
					Healing: r.healing,
				})
				state = stateHealed
			} else {
				log.Warn("healing found no configuration changes to apply")
				s.record(r, domain.Incident{
					Stage:   domain.StageHealing,
					Status:  domain.StatusNoChanges,
					Report:  r.report,
					Healing: r.healing,
				})
				state = stateNoChanges
			}

		case stateHealed:
			if err := s.deps.Configs.Save(r.healing.Config); err != nil {
				log.Error("persisting healed configuration failed", zap.Error(err))
				s.fail(r, domain.StageHealing, domain.StatusFailed, err)
				state = stateDone
				continue
			}
			r.cfg = r.healing.Config
			state = stateRetrying

		case stateNoChanges:
			r.outcome = domain.StatusFailed
			state = stateDone

		case stateRetrying:
			// The single permitted retry: re-pull and re-validate once.
			snap, err := s.pullSnapshot(ctx, r.cfg)
			if err != nil {
				log.Error("etl failed during retry", zap.Error(err))
				s.fail(r, domain.StageRetry, domain.StatusFailedAfterHealing, err)
				state = stateDone
				continue
			}
			r.snap = snap

			report, verr := quality.Enforce(r.snap, r.cfg)
			r.report = &report
			if verr != nil {
				log.Warn("data quality still failing after healing",
					zap.Int("violations", len(report.Violations)))
				s.record(r, domain.Incident{
					Stage:        domain.StageRetry,
					Status:       domain.StatusFailedAfterHealing,
					ErrorType:    domain.ClassifyError(verr),
					ErrorMessage: verr.Error(),
					Report:       r.report,
					Healing:      r.healing,
				})
				r.outcome = domain.StatusFailedAfterHealing
				state = stateDone
				continue
			}

			driftReport, err := drift.Detect(r.snap, r.cfg, s.deps.Baselines, s.profilePath(r.cfg))
			if err != nil {
				log.Error("drift detection failed during retry", zap.Error(err))
				s.fail(r, domain.StageRetry, domain.StatusFailedAfterHealing, err)
				state = stateDone
				continue
			}
			r.drift = &driftReport

			log.Info("pipeline recovered after healing")
			s.record(r, domain.Incident{
				Stage:   domain.StageRetry,
				Status:  domain.StatusHealedSuccess,
				Report:  r.report,
				Drift:   r.drift,
				Healing: r.healing,
			})
			r.outcome = domain.StatusHealedSuccess
			state = stateDone
		}
	}

	log.Info("pipeline run finished", zap.String("outcome", string(r.outcome)))
	return &domain.RunResult{
		RunID:     r.id,
		Outcome:   r.outcome,
		Report:    r.report,
		Drift:     r.drift,
		Healing:   r.healing,
		Incidents: r.incidents,
	}, nil
}

// pullSnapshot loads a snapshot and mirrors it into the warehouse when one
// is configured.
func (s *RunService) pullSnapshot(ctx context.Context, cfg domain.PipelineConfig) (*domain.Snapshot, error) {
	snap, err := s.deps.Source.Load(cfg)
	if err != nil {
		return nil, err
	}
	if s.deps.Warehouse != nil && cfg.TableName != "" {
		if err := s.deps.Warehouse.Replace(ctx, cfg.TableName, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *RunService) profilePath(cfg domain.PipelineConfig) string {
	p := cfg.Drift.ProfilePath
	if p == "" {
		p = domain.DefaultProfilePath
	}
	if !filepath.IsAbs(p) && s.deps.BaseDir != "" {
		p = filepath.Join(s.deps.BaseDir, p)
	}
	return p
}

// fail records the terminal incident for an unexpected error, classifying
// it for audit, and marks the run outcome.
func (s *RunService) fail(r *run, stage domain.Stage, status domain.RunStatus, err error) {
	s.record(r, domain.Incident{
		Stage:        stage,
		Status:       status,
		ErrorType:    domain.ClassifyError(err),
		ErrorMessage: err.Error(),
		Report:       r.report,
		Healing:      r.healing,
	})
	r.outcome = status
}

// record fills the run-scoped fields, appends the incident to the result,
// and hands it to the sink. Sink failures are logged, not fatal: the audit
// trail is best effort once the run itself is underway.
func (s *RunService) record(r *run, inc domain.Incident) {
	inc.RunID = r.id
	inc.RunUID = r.uid
	inc.Pipeline = r.pipeline
	inc.Description = r.desc
	inc.Revision = r.revision
	inc.RecordedAt = s.deps.Now()

	r.incidents = append(r.incidents, inc)
	if err := s.deps.Incidents.Record(inc); err != nil {
		s.deps.Log.Warn("recording incident failed", zap.Error(err))
	}
}
