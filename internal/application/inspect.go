package application

import (
	"context"

	"github.com/kintsugidata/kintsugi/internal/domain"
	"github.com/kintsugidata/kintsugi/internal/domain/drift"
	"github.com/kintsugidata/kintsugi/internal/domain/healing"
	"github.com/kintsugidata/kintsugi/internal/domain/quality"
)

// Inspection entry points behind the validate/drift/heal commands. Unlike
// Run they record no incidents and never touch the warehouse; they load a
// fresh snapshot and report what they see.

// Validate loads a snapshot and runs the quality checks once.
func (s *RunService) Validate(_ context.Context) (domain.QualityReport, error) {
	cfg, snap, err := s.loadForInspection()
	if err != nil {
		return domain.QualityReport{}, err
	}
	return quality.Validate(snap, cfg), nil
}

// DetectDrift loads a snapshot and compares it against the baseline.
// On the first call for a profile path this creates the baseline.
func (s *RunService) DetectDrift(_ context.Context) (domain.DriftReport, error) {
	cfg, snap, err := s.loadForInspection()
	if err != nil {
		return domain.DriftReport{}, err
	}
	return drift.Detect(snap, cfg, s.deps.Baselines, s.profilePath(cfg))
}

// Heal validates a snapshot and, when checks fail, computes the healing
// result. With apply set the mutated configuration is persisted; otherwise
// this is a dry run. A passing report returns an empty result.
func (s *RunService) Heal(_ context.Context, apply bool) (domain.HealingResult, error) {
	cfg, snap, err := s.loadForInspection()
	if err != nil {
		return domain.HealingResult{}, err
	}

	report := quality.Validate(snap, cfg)
	if report.Passing() {
		return domain.HealingResult{Config: cfg}, nil
	}

	result := healing.Heal(report, cfg, s.deps.Caps)
	if apply && result.Applied() {
		if err := s.deps.Configs.Save(result.Config); err != nil {
			return domain.HealingResult{}, err
		}
	}
	return result, nil
}

func (s *RunService) loadForInspection() (domain.PipelineConfig, *domain.Snapshot, error) {
	cfg, err := s.deps.Configs.Load()
	if err != nil {
		return domain.PipelineConfig{}, nil, err
	}
	snap, err := s.deps.Source.Load(cfg)
	if err != nil {
		return domain.PipelineConfig{}, nil, err
	}
	return cfg, snap, nil
}
