// Package plan reads merge plans: Markdown files whose YAML front matter
// describes a merge and whose body holds free-form notes.
package plan

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/projectfile"
)

// Plan is one merge described in a plan file. Paths are relative to the
// plan file's directory unless absolute.
type Plan struct {
	Source       string `yaml:"source"`
	Project      string `yaml:"project"`
	ProjectFile  string `yaml:"projectFile"`
	Target       string `yaml:"target"`
	SourceConfig string `yaml:"sourceConfig"`
	TargetConfig string `yaml:"targetConfig"`
	MissingRefs  string `yaml:"missingRefs"`
	Create       bool   `yaml:"create"`
	Backup       bool   `yaml:"backup"`

	// FilePath is the plan file the plan was read from.
	FilePath string `yaml:"-"`
	// Notes is the Markdown body.
	Notes string `yaml:"-"`
}

// Read loads a plan file.
func Read(fs filesystem.FileSystem, path string) (*Plan, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.FilePath = filepath.Clean(path)
	return p, nil
}

// Parse decodes plan front matter and body.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	rest, err := frontmatter.MustParse(bytes.NewReader(data), &p)
	if err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	p.Notes = strings.TrimSpace(string(rest))
	return &p, nil
}

// Request converts the plan into a merge request, resolving relative paths
// against the plan's directory.
func (p *Plan) Request() (merge.Request, error) {
	policy, err := projectfile.ParseMissingReferencePolicy(p.MissingRefs)
	if err != nil {
		return merge.Request{}, err
	}

	dir := filepath.Dir(p.FilePath)
	return merge.Request{
		SourceSolution: p.resolve(dir, p.Source),
		ProjectName:    p.Project,
		ProjectFile:    p.resolve(dir, p.ProjectFile),
		TargetSolution: p.resolve(dir, p.Target),
		SourceConfig:   p.SourceConfig,
		TargetConfig:   p.TargetConfig,
		MissingRefs:    policy,
		CreateTarget:   p.Create,
		Backup:         p.Backup,
	}, nil
}

func (p *Plan) resolve(dir, path string) string {
	if path == "" {
		return ""
	}
	native := models.NativePath(path)
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Join(dir, native)
}
