// Package configstore persists the pipeline configuration as YAML.
package configstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// FileName is the configuration document inside the pipeline directory.
const FileName = "pipeline.yaml"

// Store implements domain.ConfigStore on a single YAML file.
type Store struct {
	path string
}

// New creates a store for dir/pipeline.yaml.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads, defaults, and validates the configuration. A missing file is
// a ConfigError: the pipeline cannot run without its contract.
func (s *Store) Load() (domain.PipelineConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.PipelineConfig{}, &domain.ConfigError{
				Reason: fmt.Sprintf("%s not found (run init first)", FileName),
				Err:    err,
			}
		}
		return domain.PipelineConfig{}, &domain.StorageError{Op: "read", Path: s.path, Err: err}
	}

	var cfg domain.PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.PipelineConfig{}, &domain.ConfigError{
			Reason: fmt.Sprintf("parsing %s", FileName),
			Err:    err,
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.PipelineConfig{}, err
	}
	return cfg, nil
}

// Save rewrites the whole configuration document atomically: marshal to a
// temp file in the same directory, then rename over the original.
func (s *Store) Save(cfg domain.PipelineConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return &domain.StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &domain.StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
