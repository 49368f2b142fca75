package sln

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jakoblorz/slnchain/internal/models"
)

// ParseError reports a solution file the grammar could not accept.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Unwrap lets callers match parse failures with errors.Is(err, models.ErrParse).
func (e *ParseError) Unwrap() error {
	return models.ErrParse
}

var (
	projectHeaderRe  = regexp.MustCompile(`^Project\("\{?([^"{}]+)\}?"\)\s*=\s*"([^"]*)"\s*,\s*"([^"]*)"\s*,\s*"\{?([^"{}]+)\}?"\s*$`)
	projectSectionRe = regexp.MustCompile(`^ProjectSection\(([^)]*)\)\s*=\s*(\S+)\s*$`)
	globalSectionRe  = regexp.MustCompile(`^GlobalSection\(([^)]*)\)\s*=\s*(\S+)\s*$`)
)

type parseState int

const (
	stateTop parseState = iota
	stateProject
	stateProjectSection
	stateGlobal
	stateGlobalSection
	stateDone
)

// Parse reads solution text. The bytes before the first project entry (or
// before Global when there are no projects) are kept verbatim as the
// preamble.
func Parse(path string, data []byte) (*Solution, error) {
	s := &Solution{
		Path:    filepath.Clean(path),
		Newline: "\n",
	}
	if bytes.Contains(data, []byte("\r\n")) {
		s.Newline = "\r\n"
	}

	lines := strings.Split(string(data), "\n")

	body := len(lines)
	offset := 0
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.Contains(line, "Project(") || strings.TrimSpace(line) == "Global" {
			body = i
			break
		}
		offset += len(raw) + 1
	}
	if offset > len(data) {
		offset = len(data)
	}
	s.Preamble = append([]byte(nil), data[:offset]...)

	state := stateTop
	var project *models.Project
	var origin models.FromSolution
	var projectSection *models.ProjectSection
	var globalSection *models.GlobalSection

	fail := func(lineNo int, format string, args ...any) error {
		return &ParseError{Path: s.Path, Line: lineNo, Msg: fmt.Sprintf(format, args...)}
	}

	for i := body; i < len(lines); i++ {
		lineNo := i + 1
		line := strings.TrimSpace(lines[i])
		if line == "" && state != stateDone {
			continue
		}

		switch state {
		case stateTop:
			switch {
			case strings.HasPrefix(line, "Project("):
				m := projectHeaderRe.FindStringSubmatch(line)
				if m == nil {
					return nil, fail(lineNo, "malformed project entry %q", line)
				}
				typeGUID, err := models.ParseGUID(m[1])
				if err != nil {
					return nil, fail(lineNo, "bad project type GUID %q", m[1])
				}
				guid, err := models.ParseGUID(m[4])
				if err != nil {
					return nil, fail(lineNo, "bad project GUID %q", m[4])
				}
				origin = models.FromSolution{Name: m[2], RawPath: m[3], TypeGUID: typeGUID}
				project = models.NewSolutionProject(guid, s.Dir(), origin)
				state = stateProject
			case line == "Global":
				state = stateGlobal
			default:
				return nil, fail(lineNo, "unexpected line %q", line)
			}

		case stateProject:
			switch {
			case line == "EndProject":
				project.Origin = origin
				s.Projects = append(s.Projects, project)
				project = nil
				state = stateTop
			case strings.HasPrefix(line, "ProjectSection("):
				m := projectSectionRe.FindStringSubmatch(line)
				if m == nil {
					return nil, fail(lineNo, "malformed project section %q", line)
				}
				sectionType, err := models.ParseSectionType(m[2])
				if err != nil {
					return nil, fail(lineNo, "%v", err)
				}
				projectSection = models.NewProjectSection(m[1], sectionType)
				origin.Sections = append(origin.Sections, projectSection)
				state = stateProjectSection
			default:
				return nil, fail(lineNo, "unexpected line in project %q", line)
			}

		case stateProjectSection:
			if line == "EndProjectSection" {
				projectSection = nil
				state = stateProject
				continue
			}
			key, value, ok := splitEntry(line)
			if !ok {
				return nil, fail(lineNo, "malformed entry %q", line)
			}
			projectSection.Entries.Add(key, value)

		case stateGlobal:
			switch {
			case line == "EndGlobal":
				state = stateDone
			case strings.HasPrefix(line, "GlobalSection("):
				m := globalSectionRe.FindStringSubmatch(line)
				if m == nil {
					return nil, fail(lineNo, "malformed global section %q", line)
				}
				sectionType, err := models.ParseSectionType(m[2])
				if err != nil {
					return nil, fail(lineNo, "%v", err)
				}
				globalSection = models.NewGlobalSection(m[1], sectionType)
				s.Global = append(s.Global, globalSection)
				state = stateGlobalSection
			default:
				return nil, fail(lineNo, "unexpected line in Global %q", line)
			}

		case stateGlobalSection:
			if line == "EndGlobalSection" {
				globalSection = nil
				state = stateGlobal
				continue
			}
			key, value, ok := splitEntry(line)
			if !ok {
				return nil, fail(lineNo, "malformed entry %q", line)
			}
			globalSection.Entries.Add(key, value)

		case stateDone:
			// nothing after EndGlobal survives Encode
			if line != "" {
				return nil, fail(lineNo, "unexpected content after EndGlobal %q", line)
			}
		}
	}

	switch state {
	case stateTop, stateDone:
		return s, nil
	case stateProject, stateProjectSection:
		return nil, fail(0, "unexpected end of file inside project entry")
	default:
		return nil, fail(0, "unexpected end of file inside Global")
	}
}

func splitEntry(line string) (string, string, bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}
