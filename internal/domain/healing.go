package domain

// HealingCaps bounds how far the healing engine may relax the config.
type HealingCaps struct {
	// MaxNullFractionCap is the ceiling for any relaxed max_null_fraction.
	MaxNullFractionCap float64
	// StepIncrease is the minimum relaxation step for null-fraction rules.
	StepIncrease float64
}

// DefaultHealingCaps returns the standard relaxation bounds.
func DefaultHealingCaps() HealingCaps {
	return HealingCaps{MaxNullFractionCap: 0.8, StepIncrease: 0.2}
}

// HealingResult is the outcome of one healing pass: human-readable change
// descriptions in application order plus the mutated configuration. An
// empty change list means the configuration must not be persisted.
type HealingResult struct {
	Changes []string       `json:"changes"`
	Config  PipelineConfig `json:"updated_config"`
}

// Applied reports whether the engine changed anything.
func (h HealingResult) Applied() bool { return len(h.Changes) > 0 }
