package models

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Project is a buildable unit identified by its GUID.
//
// Two Project values describe the same project when their GUIDs match; the
// path plays no part in identity.
type Project struct {
	guid uuid.UUID

	// Path is the absolute path to the project file. For solution folders it
	// holds the folder's display path exactly as stored in the solution.
	Path string

	// Origin records where the project was read from.
	Origin Origin
}

// Origin is either FromSolution or FromFile.
type Origin interface {
	isOrigin()
}

// FromSolution carries the metadata of a project entry parsed from a .sln.
type FromSolution struct {
	Name     string
	RawPath  string
	TypeGUID uuid.UUID
	Sections []*ProjectSection
}

// FromFile marks a project constructed from a bare project-file path.
type FromFile struct {
	TypeGUID uuid.UUID
}

func (FromSolution) isOrigin() {}
func (FromFile) isOrigin()     {}

// NewSolutionProject creates a project from a parsed solution entry. Paths of
// non-folder projects are resolved against solutionDir.
func NewSolutionProject(guid uuid.UUID, solutionDir string, origin FromSolution) *Project {
	path := origin.RawPath
	if origin.TypeGUID != FolderTypeGUID {
		path = filepath.Join(solutionDir, NativePath(origin.RawPath))
	}
	return &Project{
		guid:   guid,
		Path:   path,
		Origin: origin,
	}
}

// NewFileProject creates a project from a project file on disk.
func NewFileProject(guid uuid.UUID, path string, typeGUID uuid.UUID) *Project {
	return &Project{
		guid:   guid,
		Path:   filepath.Clean(path),
		Origin: FromFile{TypeGUID: typeGUID},
	}
}

// GUID returns the project identifier.
func (p *Project) GUID() uuid.UUID {
	return p.guid
}

// Key returns the project GUID as used in solution files, e.g.
// "{11111111-2222-3333-4444-555555555555}" in upper case.
func (p *Project) Key() string {
	return FormatGUID(p.guid)
}

// Equal reports whether both projects share a GUID.
func (p *Project) Equal(other *Project) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.guid == other.guid
}

// Name is the display name. File-origin projects use the file name without
// its extension, which is what Visual Studio does when a project is added.
func (p *Project) Name() string {
	switch o := p.Origin.(type) {
	case FromSolution:
		return o.Name
	default:
		base := filepath.Base(p.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// TypeGUID identifies the project kind (C#, C++, solution folder, ...).
func (p *Project) TypeGUID() uuid.UUID {
	switch o := p.Origin.(type) {
	case FromSolution:
		return o.TypeGUID
	case FromFile:
		return o.TypeGUID
	}
	return uuid.Nil
}

// IsFolder reports whether the project is a solution folder pseudo-project.
func (p *Project) IsFolder() bool {
	return p.TypeGUID() == FolderTypeGUID
}

// SolutionOrigin returns the solution metadata when the project was parsed
// from a solution file.
func (p *Project) SolutionOrigin() (FromSolution, bool) {
	o, ok := p.Origin.(FromSolution)
	return o, ok
}

// Sections returns the nested project sections, if any.
func (p *Project) Sections() []*ProjectSection {
	if o, ok := p.SolutionOrigin(); ok {
		return o.Sections
	}
	return nil
}

// NativePath converts a Windows-style relative path from a solution or
// project file into the host separator convention.
func NativePath(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}
