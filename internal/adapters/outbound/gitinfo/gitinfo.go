// Package gitinfo stamps incidents with the pipeline directory's git
// revision so the audit trail records which configuration version ran.
package gitinfo

import (
	"github.com/go-git/go-git/v5"
)

// Adapter implements domain.RevisionReader using go-git.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

// Head returns the short HEAD hash for dir, or "" when dir is not inside a
// git repository. Revision stamping is best effort and never fails a run.
func (a *Adapter) Head(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	hash := head.Hash().String()
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash
}
