// Package incidentlog appends pipeline incidents to a JSONL audit file.
package incidentlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

// FileName is the incident log inside the pipeline metadata directory.
const FileName = "data/metadata/incidents.jsonl"

// Log implements domain.IncidentSink as an append-only JSONL file, one
// incident per line. Records are never rewritten.
type Log struct {
	path string
}

// New creates a log rooted at the pipeline directory.
func New(dir string) *Log {
	return &Log{path: filepath.Join(dir, filepath.FromSlash(FileName))}
}

// Record appends one incident.
func (l *Log) Record(inc domain.Incident) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return &domain.StorageError{Op: "mkdir", Path: l.path, Err: err}
	}

	data, err := json.Marshal(inc)
	if err != nil {
		return &domain.StorageError{Op: "encode", Path: l.path, Err: err}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &domain.StorageError{Op: "open", Path: l.path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return &domain.StorageError{Op: "write", Path: l.path, Err: err}
	}
	return nil
}

// List reads back all recorded incidents in order. Display-only: the
// pipeline core never consumes this.
func (l *Log) List() ([]domain.Incident, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "open", Path: l.path, Err: err}
	}
	defer f.Close()

	var incidents []domain.Incident
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var inc domain.Incident
		if err := json.Unmarshal(line, &inc); err != nil {
			return nil, &domain.StorageError{Op: "decode", Path: l.path, Err: err}
		}
		incidents = append(incidents, inc)
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.StorageError{Op: "read", Path: l.path, Err: err}
	}
	return incidents, nil
}
