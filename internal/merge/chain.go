// Package merge copies a project and its dependency chain from one solution
// into another.
package merge

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/jakoblorz/slnchain/internal/deps"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/sln"
)

// Request describes one merge.
type Request struct {
	// SourceSolution and ProjectName select the root project from a
	// solution. When SourceSolution is empty, ProjectFile is used instead
	// and build configurations are synthesized.
	SourceSolution string
	ProjectName    string
	ProjectFile    string

	TargetSolution string

	SourceConfig string
	TargetConfig string

	MissingRefs projectfile.MissingReferencePolicy

	// CreateTarget creates the target solution when it does not exist.
	CreateTarget bool
	// Backup copies the target aside before it is overwritten.
	Backup bool
	// DryRun computes the result without writing anything.
	DryRun bool
}

// Result summarizes a merge.
type Result struct {
	Root           *models.Project
	Chain          []*models.Project
	Added          []*models.Project
	Skipped        []*models.Project
	ConfigsAdded   int
	TargetPath     string
	BackupPath     string
	TargetCreated  bool
	DryRun         bool
	SourceConfig   string
	TargetConfig   string
	SourcePath     string
	BareProjectRun bool
}

// Chain runs merges against a filesystem.
type Chain struct {
	fs     filesystem.FileSystem
	logger *zap.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain creates a Chain.
func NewChain(fs filesystem.FileSystem, options ...Option) *Chain {
	c := &Chain{fs: fs, logger: zap.NewNop()}
	for _, option := range options {
		option(c)
	}
	return c
}

// Run performs the merge. The target solution is written only after the
// whole dependency chain has been resolved; any earlier failure leaves it
// untouched.
func (c *Chain) Run(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	result := &Result{
		TargetPath:   req.TargetSolution,
		DryRun:       req.DryRun,
		SourceConfig: req.SourceConfig,
		TargetConfig: req.TargetConfig,
		SourcePath:   req.SourceSolution,
	}

	var source *sln.Solution
	var root *models.Project
	var resolve deps.ResolveFunc

	if req.SourceSolution != "" {
		var err error
		source, err = sln.Load(c.fs, req.SourceSolution)
		if err != nil {
			return nil, fmt.Errorf("failed to load source solution: %w", err)
		}

		found, ok := source.GetProject(req.ProjectName)
		if !ok {
			return nil, fmt.Errorf("%w: %q in source solution %s", models.ErrProjectNotFound, req.ProjectName, req.SourceSolution)
		}
		root = found
		resolve = source.Resolve
	} else {
		file, err := projectfile.LoadSupported(c.fs, req.ProjectFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		root = file.Project()
		resolve = deps.Identity
		result.BareProjectRun = true
		result.SourcePath = req.ProjectFile
	}
	result.Root = root

	if !c.fs.Exists(req.TargetSolution) && !req.CreateTarget {
		return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, req.TargetSolution)
	}

	walker := deps.NewWalker(resolve, projectfile.NewLoader(c.fs, req.MissingRefs), deps.WithLogger(c.logger))
	chain, err := walker.Flatten(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies of %s: %w", root.Name(), err)
	}
	result.Chain = chain
	if source == nil {
		// Without a source solution every project type comes from its extension.
		for _, project := range chain {
			if project.TypeGUID() == uuid.Nil {
				return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedProjectType, project.Path)
			}
		}
	}
	c.logger.Debug("flattened dependency chain",
		zap.String("root", root.Name()),
		zap.Int("length", len(chain)))

	var target *sln.Solution
	if c.fs.Exists(req.TargetSolution) {
		target, err = sln.Load(c.fs, req.TargetSolution)
		if err != nil {
			return nil, fmt.Errorf("failed to load target solution: %w", err)
		}
	} else {
		target = sln.NewSolution(req.TargetSolution)
		target.EnsureSolutionConfig(req.TargetConfig)
		result.TargetCreated = true
	}

	for _, project := range chain {
		if target.AddProject(project) {
			result.Added = append(result.Added, project)
			c.logger.Debug("added project", zap.String("name", project.Name()), zap.String("guid", project.Key()))
		} else if !containsProject(result.Added, project) && !containsProject(result.Skipped, project) {
			result.Skipped = append(result.Skipped, project)
		}

		entries, err := c.buildConfigs(source, project, req)
		if err != nil {
			return nil, err
		}

		added, err := target.AddBuildConfigs(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to add build configs to %s: %w", target.Path, err)
		}
		result.ConfigsAdded += added
	}

	if req.DryRun {
		return result, nil
	}

	if req.Backup && !result.TargetCreated {
		backupPath, err := c.backup(req.TargetSolution)
		if err != nil {
			return nil, err
		}
		result.BackupPath = backupPath
	}

	if err := target.Save(c.fs); err != nil {
		return nil, err
	}
	c.logger.Info("saved target solution",
		zap.String("path", target.Path),
		zap.Int("projectsAdded", len(result.Added)),
		zap.Int("configsAdded", result.ConfigsAdded))

	return result, nil
}

func (c *Chain) buildConfigs(source *sln.Solution, project *models.Project, req Request) ([]models.Entry, error) {
	if source == nil {
		return sln.SynthesizeBuildConfigs(project, req.TargetConfig), nil
	}

	sourceEntries, err := source.GetBuildConfigsFor(project, req.SourceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to read build configs from %s: %w", source.Path, err)
	}

	entries := make([]models.Entry, 0, len(sourceEntries))
	for _, entry := range sourceEntries {
		key, err := sln.RemapConfigKey(entry.Key, req.TargetConfig)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.Entry{Key: key, Value: entry.Value})
	}
	return entries, nil
}

func (c *Chain) backup(path string) (string, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read target for backup: %w", err)
	}

	id, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate backup name: %w", err)
	}

	backupPath := path + "." + id + ".bak"
	if err := c.fs.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}

func validate(req Request) error {
	switch {
	case req.SourceSolution == "" && req.ProjectFile == "":
		return fmt.Errorf("either a source solution or a project file is required")
	case req.SourceSolution != "" && req.ProjectFile != "":
		return fmt.Errorf("source solution and project file are mutually exclusive")
	case req.SourceSolution != "" && req.ProjectName == "":
		return fmt.Errorf("project name is required with a source solution")
	case req.SourceSolution != "" && req.SourceConfig == "":
		return fmt.Errorf("source configuration is required with a source solution")
	case req.TargetSolution == "":
		return fmt.Errorf("target solution is required")
	case req.TargetConfig == "":
		return fmt.Errorf("target configuration is required")
	}
	return nil
}

func containsProject(list []*models.Project, p *models.Project) bool {
	for _, candidate := range list {
		if candidate.Equal(p) {
			return true
		}
	}
	return false
}
