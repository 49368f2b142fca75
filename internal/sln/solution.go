// Package sln models Visual Studio solution files: parsing, lookup and
// merge operations, and text-preserving regeneration.
package sln

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
)

// BuildConfigSectionName is the global section holding per-project build
// configuration mappings.
const BuildConfigSectionName = "ProjectConfigurationPlatforms"

// SolutionConfigSectionName lists the Config|Platform pairs a solution offers.
const SolutionConfigSectionName = "SolutionConfigurationPlatforms"

// DefaultPreamble is the banner written for solutions created from scratch.
const DefaultPreamble = "\ufeff\r\n" +
	"Microsoft Visual Studio Solution File, Format Version 12.00\r\n" +
	"# Visual Studio 2013\r\n" +
	"VisualStudioVersion = 12.0.31101.0\r\n" +
	"MinimumVisualStudioVersion = 10.0.40219.1\r\n"

// Solution is the in-memory form of a .sln file.
type Solution struct {
	// Path is the absolute path of the solution file.
	Path string

	// Preamble holds the original bytes preceding the first project entry.
	// It is written back untouched.
	Preamble []byte

	// Newline is the line terminator used when regenerating the file.
	Newline string

	Projects []*models.Project
	Global   []*models.GlobalSection
}

// Load reads and parses the solution at path.
func Load(fs filesystem.FileSystem, path string) (*Solution, error) {
	if !filesystem.IsFile(fs, path) {
		return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solution: %w", err)
	}

	return Parse(path, data)
}

// NewSolution creates an empty solution with the standard banner and the
// global sections Visual Studio expects.
func NewSolution(path string) *Solution {
	return &Solution{
		Path:     filepath.Clean(path),
		Preamble: []byte(DefaultPreamble),
		Newline:  "\r\n",
		Global: []*models.GlobalSection{
			models.NewGlobalSection(SolutionConfigSectionName, models.PreSolution),
			models.NewGlobalSection(BuildConfigSectionName, models.PostSolution),
			solutionProperties(),
		},
	}
}

func solutionProperties() *models.GlobalSection {
	section := models.NewGlobalSection("SolutionProperties", models.PreSolution)
	section.Entries.Add("HideSolutionNode", "FALSE")
	return section
}

// Dir returns the directory holding the solution file.
func (s *Solution) Dir() string {
	return filepath.Dir(s.Path)
}

// GetProject finds a project by name, ignoring case.
func (s *Solution) GetProject(name string) (*models.Project, bool) {
	for _, p := range s.Projects {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// FindByGUID finds a project by GUID.
func (s *Solution) FindByGUID(guid uuid.UUID) (*models.Project, bool) {
	for _, p := range s.Projects {
		if p.GUID() == guid {
			return p, true
		}
	}
	return nil, false
}

// Resolve returns the solution's own copy of p, or ErrProjectNotFound.
func (s *Solution) Resolve(p *models.Project) (*models.Project, error) {
	if found, ok := s.FindByGUID(p.GUID()); ok {
		return found, nil
	}
	return nil, fmt.Errorf("%w: %s (%s) not found in %s", models.ErrProjectNotFound, p.Path, p.Key(), s.Path)
}

// AddProject appends p unless a project with the same GUID is already
// present. It reports whether p was appended.
func (s *Solution) AddProject(p *models.Project) bool {
	if _, exists := s.FindByGUID(p.GUID()); exists {
		return false
	}
	s.Projects = append(s.Projects, p)
	return true
}

// GetBuildConfigSection returns the ProjectConfigurationPlatforms section.
func (s *Solution) GetBuildConfigSection() (*models.GlobalSection, error) {
	for _, section := range s.Global {
		if section.Name == BuildConfigSectionName && section.Type == models.PostSolution {
			return section, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", models.ErrMandatorySectionMissing, BuildConfigSectionName, s.Path)
}

// GetBuildConfigsFor returns the build-config entries of p for configPlatform
// (e.g. "Release|x86"). Keys are compared case-insensitively and must contain
// "{guid}.configPlatform.".
func (s *Solution) GetBuildConfigsFor(p *models.Project, configPlatform string) ([]models.Entry, error) {
	section, err := s.GetBuildConfigSection()
	if err != nil {
		return nil, err
	}

	search := "{" + strings.ToLower(p.GUID().String()) + "}." + strings.ToLower(configPlatform) + "."

	var out []models.Entry
	for _, entry := range section.Entries.All() {
		if strings.Contains(strings.ToLower(entry.Key), search) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// AddBuildConfig inserts entry unless its key already exists.
func (s *Solution) AddBuildConfig(entry models.Entry) (bool, error) {
	section, err := s.GetBuildConfigSection()
	if err != nil {
		return false, err
	}
	return section.Entries.Add(entry.Key, entry.Value), nil
}

// AddBuildConfigs inserts each entry unless its key already exists and
// returns how many were inserted.
func (s *Solution) AddBuildConfigs(entries []models.Entry) (int, error) {
	section, err := s.GetBuildConfigSection()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, entry := range entries {
		if section.Entries.Add(entry.Key, entry.Value) {
			added++
		}
	}
	return added, nil
}

// EnsureSolutionConfig registers configPlatform in the
// SolutionConfigurationPlatforms section if that section exists.
func (s *Solution) EnsureSolutionConfig(configPlatform string) bool {
	for _, section := range s.Global {
		if section.Name == SolutionConfigSectionName {
			return section.Entries.Add(configPlatform, configPlatform)
		}
	}
	return false
}

// DanglingBuildConfigs returns build-config keys whose GUID does not belong
// to any project of the solution.
func (s *Solution) DanglingBuildConfigs() ([]string, error) {
	section, err := s.GetBuildConfigSection()
	if err != nil {
		return nil, err
	}

	var dangling []string
	for _, entry := range section.Entries.All() {
		guidPart, _, _ := strings.Cut(entry.Key, ".")
		guid, err := models.ParseGUID(guidPart)
		if err != nil {
			dangling = append(dangling, entry.Key)
			continue
		}
		if _, ok := s.FindByGUID(guid); !ok {
			dangling = append(dangling, entry.Key)
		}
	}
	return dangling, nil
}

// RelativePath returns the path of p as written in this solution: relative
// to the solution directory with Windows separators. Solution folders keep
// their stored path.
func (s *Solution) RelativePath(p *models.Project) string {
	if p.IsFolder() {
		if o, ok := p.SolutionOrigin(); ok {
			return o.RawPath
		}
		return p.Path
	}

	rel, err := filepath.Rel(s.Dir(), p.Path)
	if err != nil {
		rel = p.Path
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)
}

// RemapConfigKey replaces the Config|Platform segment of a build-config key:
// "{GUID}.Debug|x86.ActiveCfg" with "Release|x64" becomes
// "{GUID}.Release|x64.ActiveCfg". Keys are split on '.', so a configuration
// name containing a dot is not supported.
func RemapConfigKey(key, configPlatform string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", models.ErrMalformedConfigKey, key)
	}
	parts[1] = configPlatform
	return strings.Join(parts, "."), nil
}

// SynthesizeBuildConfigs returns the ActiveCfg and Build.0 entries mapping p
// to configPlatform. It is used when no source solution provides entries.
func SynthesizeBuildConfigs(p *models.Project, configPlatform string) []models.Entry {
	prefix := p.Key() + "." + configPlatform
	return []models.Entry{
		{Key: prefix + ".ActiveCfg", Value: configPlatform},
		{Key: prefix + ".Build.0", Value: configPlatform},
	}
}
