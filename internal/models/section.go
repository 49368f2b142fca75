package models

import (
	"fmt"
	"strings"
)

// SectionType is the placement tag of a solution section, e.g. PostSolution.
type SectionType string

const (
	PreSolution  SectionType = "PreSolution"
	PostSolution SectionType = "PostSolution"
	PreProject   SectionType = "PreProject"
	PostProject  SectionType = "PostProject"
)

// ParseSectionType accepts the tag in any letter case.
func ParseSectionType(s string) (SectionType, error) {
	for _, t := range []SectionType{PreSolution, PostSolution, PreProject, PostProject} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown section type %q", s)
}

// Tag renders the type as it appears in solution files: first letter lowered.
func (t SectionType) Tag() string {
	if t == "" {
		return ""
	}
	return strings.ToLower(string(t[:1])) + string(t[1:])
}

// Entry is a single key = value line of a section.
type Entry struct {
	Key   string
	Value string
}

// Entries is an insertion-ordered string map with unique keys.
type Entries struct {
	keys   []string
	values map[string]string
}

// NewEntries returns an empty Entries.
func NewEntries() *Entries {
	return &Entries{values: make(map[string]string)}
}

// Add inserts key unless it is already present. It reports whether the entry
// was inserted.
func (e *Entries) Add(key, value string) bool {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, exists := e.values[key]; exists {
		return false
	}
	e.keys = append(e.keys, key)
	e.values[key] = value
	return true
}

// Get returns the value stored for key.
func (e *Entries) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Has reports whether key is present.
func (e *Entries) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return len(e.keys)
}

// All returns the entries in insertion order.
func (e *Entries) All() []Entry {
	out := make([]Entry, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, Entry{Key: k, Value: e.values[k]})
	}
	return out
}

// GlobalSection is a GlobalSection(Name) = type block of the Global area.
type GlobalSection struct {
	Name    string
	Type    SectionType
	Entries *Entries
}

// NewGlobalSection creates an empty global section.
func NewGlobalSection(name string, sectionType SectionType) *GlobalSection {
	return &GlobalSection{Name: name, Type: sectionType, Entries: NewEntries()}
}

// ProjectSection is a ProjectSection(Name) = type block nested in a project.
type ProjectSection struct {
	Name    string
	Type    SectionType
	Entries *Entries
}

// NewProjectSection creates an empty project section.
func NewProjectSection(name string, sectionType SectionType) *ProjectSection {
	return &ProjectSection{Name: name, Type: sectionType, Entries: NewEntries()}
}
