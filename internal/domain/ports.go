package domain

import "context"

// SnapshotSource pulls one dataset snapshot per call, coerced to the
// configured column types. Missing columns are tolerated here and reported
// by the validator, not the loader.
type SnapshotSource interface {
	Load(cfg PipelineConfig) (*Snapshot, error)
}

// ConfigStore persists the governing configuration between runs.
// Save is a full rewrite of the configuration document, not a patch.
type ConfigStore interface {
	Load() (PipelineConfig, error)
	Save(cfg PipelineConfig) error
}

// BaselineStore persists the reference drift profile. The core writes a
// baseline only once, on first creation, and never rewrites it.
type BaselineStore interface {
	Exists(path string) bool
	Load(path string) (Profile, error)
	Save(path string, p Profile) error
}

// IncidentSink appends audit records. The core never reads incidents back.
type IncidentSink interface {
	Record(inc Incident) error
}

// WarehouseWriter replaces the contents of the warehouse table with a
// snapshot. Implementations are external collaborators; a nil writer
// means the run proceeds without a warehouse.
type WarehouseWriter interface {
	Replace(ctx context.Context, table string, snap *Snapshot) error
}

// RevisionReader stamps incidents with the pipeline directory's source
// revision. Returns "" when the directory is not under version control.
type RevisionReader interface {
	Head(dir string) string
}
