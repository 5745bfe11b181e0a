package domain

import (
	"errors"
	"fmt"
)

// QualityError carries a non-passing report across the enforcement
// boundary. It is the only recoverable error in the pipeline: the
// orchestrator catches it and hands the report to the healing engine.
type QualityError struct {
	Report QualityReport
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("data quality checks failed: %d violation(s)", len(e.Report.Violations))
}

// ConfigError means the governing configuration is malformed or missing
// required keys. Fatal: the run aborts with no healing attempt.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// StorageError means the baseline, configuration, or incident store is
// unreachable or unwritable. Fatal.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Error classification strings recorded on incidents.
const (
	ErrorTypeQuality      = "QualityValidationFailure"
	ErrorTypeConfig       = "ConfigurationError"
	ErrorTypeStorage      = "StorageError"
	ErrorTypeUnclassified = "UnclassifiedError"
)

// ClassifyError maps an error to its audit classification string.
func ClassifyError(err error) string {
	var qe *QualityError
	var ce *ConfigError
	var se *StorageError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &qe):
		return ErrorTypeQuality
	case errors.As(err, &ce):
		return ErrorTypeConfig
	case errors.As(err, &se):
		return ErrorTypeStorage
	default:
		return ErrorTypeUnclassified
	}
}
