package projectfile

import (
	"iter"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
)

// Loader reads the project references of a Project from disk.
type Loader struct {
	fs     filesystem.FileSystem
	policy MissingReferencePolicy
}

// NewLoader creates a Loader that applies policy to absent references.
func NewLoader(fs filesystem.FileSystem, policy MissingReferencePolicy) *Loader {
	return &Loader{fs: fs, policy: policy}
}

// Dependencies loads the project file behind p and yields its references.
// Solution folders have no file and yield nothing.
func (l *Loader) Dependencies(p *models.Project) iter.Seq2[*models.Project, error] {
	if p.IsFolder() {
		return func(func(*models.Project, error) bool) {}
	}

	return func(yield func(*models.Project, error) bool) {
		file, err := Load(l.fs, p.Path)
		if err != nil {
			yield(nil, err)
			return
		}
		for dep, err := range file.Dependencies(l.policy) {
			if !yield(dep, err) || err != nil {
				return
			}
		}
	}
}
