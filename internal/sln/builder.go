package sln

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
)

// Builder helps create solution fixtures on a mock filesystem.
type Builder struct {
	fs       *filesystem.MockFileSystem
	root     string
	name     string
	entries  []string
	configs  []models.Entry
	sections []string
}

// NewBuilder creates a Builder for root/name on a fresh mock filesystem.
func NewBuilder(root, name string) *Builder {
	return NewBuilderOn(filesystem.NewMockFileSystem(), root, name)
}

// NewBuilderOn creates a Builder that writes into an existing mock
// filesystem, so that several solutions can share one tree.
func NewBuilderOn(fs *filesystem.MockFileSystem, root, name string) *Builder {
	fs.AddDir(root)
	return &Builder{fs: fs, root: root, name: name}
}

// Path returns the absolute path of the solution file.
func (b *Builder) Path() string {
	return filepath.Join(b.root, b.name)
}

// ProjectPath returns the absolute path of a project relative to the root.
func (b *Builder) ProjectPath(relPath string) string {
	return filepath.Join(b.root, filepath.FromSlash(relPath))
}

// AddProject writes a project file and lists it in the solution. refs are
// project paths relative to the builder root.
func (b *Builder) AddProject(name, relPath, guid string, refs ...string) *Builder {
	typeGUID, err := models.TypeGUIDForPath(relPath)
	if err != nil {
		panic(err)
	}
	return b.AddTypedProject(typeGUID, name, relPath, guid, refs...)
}

// AddTypedProject is AddProject with an explicit project type GUID, for
// project kinds the file extension does not identify.
func (b *Builder) AddTypedProject(typeGUID uuid.UUID, name, relPath, guid string, refs ...string) *Builder {
	b.AddProjectFile(relPath, guid, refs...)
	b.entries = append(b.entries, fmt.Sprintf("Project(\"%s\") = \"%s\", \"%s\", \"{%s}\"\r\nEndProject\r\n",
		models.FormatGUID(typeGUID), name, strings.ReplaceAll(relPath, "/", `\`), strings.ToUpper(guid)))
	return b
}

// AddProjectFile writes a project file without listing it in the solution.
func (b *Builder) AddProjectFile(relPath, guid string, refs ...string) *Builder {
	projectPath := b.ProjectPath(relPath)

	var items strings.Builder
	for _, ref := range refs {
		rel, err := filepath.Rel(filepath.Dir(projectPath), b.ProjectPath(ref))
		if err != nil {
			panic(err)
		}
		include := strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)
		fmt.Fprintf(&items, "    <ProjectReference Include=\"%s\" />\r\n", include)
	}

	b.fs.AddFile(projectPath, []byte(ProjectXML(guid, items.String())))
	return b
}

// AddFolder lists a solution folder, optionally with SolutionItems entries.
func (b *Builder) AddFolder(name, guid string, items ...string) *Builder {
	entry := fmt.Sprintf("Project(\"%s\") = \"%s\", \"%s\", \"{%s}\"\r\n",
		models.FormatGUID(models.FolderTypeGUID), name, name, strings.ToUpper(guid))
	if len(items) > 0 {
		entry += "\tProjectSection(SolutionItems) = preProject\r\n"
		for _, item := range items {
			entry += fmt.Sprintf("\t\t%s = %s\r\n", item, item)
		}
		entry += "\tEndProjectSection\r\n"
	}
	b.entries = append(b.entries, entry+"EndProject\r\n")
	return b
}

// AddBuildConfig adds ActiveCfg and Build.0 entries for guid.
func (b *Builder) AddBuildConfig(guid, configPlatform string) *Builder {
	prefix := "{" + strings.ToUpper(guid) + "}." + configPlatform
	b.configs = append(b.configs,
		models.Entry{Key: prefix + ".ActiveCfg", Value: configPlatform},
		models.Entry{Key: prefix + ".Build.0", Value: configPlatform},
	)
	return b
}

// AddGlobalSection appends a raw extra global section after the
// configuration sections.
func (b *Builder) AddGlobalSection(name, sectionType string, entries ...models.Entry) *Builder {
	section := fmt.Sprintf("\tGlobalSection(%s) = %s\r\n", name, sectionType)
	for _, e := range entries {
		section += fmt.Sprintf("\t\t%s = %s\r\n", e.Key, e.Value)
	}
	b.sections = append(b.sections, section+"\tEndGlobalSection\r\n")
	return b
}

// Text renders the solution file contents.
func (b *Builder) Text() string {
	var s strings.Builder
	s.WriteString(DefaultPreamble)
	for _, entry := range b.entries {
		s.WriteString(entry)
	}
	s.WriteString("Global\r\n")
	s.WriteString("\tGlobalSection(ProjectConfigurationPlatforms) = postSolution\r\n")
	for _, c := range b.configs {
		fmt.Fprintf(&s, "\t\t%s = %s\r\n", c.Key, c.Value)
	}
	s.WriteString("\tEndGlobalSection\r\n")
	for _, section := range b.sections {
		s.WriteString(section)
	}
	s.WriteString("EndGlobal\r\n")
	return s.String()
}

// Build writes the solution file and returns the filesystem.
func (b *Builder) Build() *filesystem.MockFileSystem {
	b.fs.AddFile(b.Path(), []byte(b.Text()))
	return b.fs
}

// FileSystem returns the mock filesystem.
func (b *Builder) FileSystem() *filesystem.MockFileSystem {
	return b.fs
}

// ProjectXML renders a minimal MSBuild project with the given ProjectGuid.
// items is inserted verbatim into an ItemGroup when non-empty.
func ProjectXML(guid, items string) string {
	var s strings.Builder
	s.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n")
	s.WriteString("<Project ToolsVersion=\"12.0\" DefaultTargets=\"Build\" xmlns=\"http://schemas.microsoft.com/developer/msbuild/2003\">\r\n")
	s.WriteString("  <PropertyGroup>\r\n")
	if guid != "" {
		fmt.Fprintf(&s, "    <ProjectGuid>{%s}</ProjectGuid>\r\n", strings.ToUpper(guid))
	}
	s.WriteString("    <OutputType>Library</OutputType>\r\n")
	s.WriteString("  </PropertyGroup>\r\n")
	if items != "" {
		s.WriteString("  <ItemGroup>\r\n")
		s.WriteString(items)
		s.WriteString("  </ItemGroup>\r\n")
	}
	s.WriteString("</Project>\r\n")
	return s.String()
}
