// Package projectfile reads MSBuild project files (.csproj, .vcxproj, ...)
// and exposes their identity and project references.
package projectfile

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
)

// MissingReferencePolicy decides what happens when a ProjectReference points
// at a file that does not exist.
type MissingReferencePolicy int

const (
	// SkipMissing drops references whose target file is absent.
	SkipMissing MissingReferencePolicy = iota
	// FailOnMissing reports ErrFileNotFound for an absent reference target.
	FailOnMissing
)

// ParseMissingReferencePolicy parses "skip" or "fail".
func ParseMissingReferencePolicy(s string) (MissingReferencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipMissing, nil
	case "fail":
		return FailOnMissing, nil
	default:
		return SkipMissing, fmt.Errorf("invalid missing reference policy %q (expected skip or fail)", s)
	}
}

func (p MissingReferencePolicy) String() string {
	if p == FailOnMissing {
		return "fail"
	}
	return "skip"
}

// File is a parsed project file.
type File struct {
	fs filesystem.FileSystem

	// Path is the absolute path of the project file.
	Path string

	// GUID is the value of the ProjectGuid element.
	GUID uuid.UUID

	// TypeGUID is derived from the file extension. It is uuid.Nil for
	// extensions without a known project type.
	TypeGUID uuid.UUID

	// References holds the raw Include attribute of every ProjectReference
	// in declaration order.
	References []string
}

// Load reads and parses the project file at path. Any MSBuild project is
// accepted; use LoadSupported where the extension has to map to a known
// project type.
func Load(fs filesystem.FileSystem, path string) (*File, error) {
	if !filesystem.IsFile(fs, path) {
		return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
	}

	typeGUID, _ := models.TypeGUIDForPath(path)

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	guidText, refs, err := scan(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrInvalidProjectFile, path, err)
	}
	if guidText == "" {
		return nil, fmt.Errorf("%w: %s: no ProjectGuid element", models.ErrInvalidProjectFile, path)
	}

	guid, err := models.ParseGUID(guidText)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad ProjectGuid %q: %v", models.ErrInvalidProjectFile, path, guidText, err)
	}

	return &File{
		fs:         fs,
		Path:       filepath.Clean(path),
		GUID:       guid,
		TypeGUID:   typeGUID,
		References: refs,
	}, nil
}

// LoadSupported is Load restricted to project files with a known type GUID.
func LoadSupported(fs filesystem.FileSystem, path string) (*File, error) {
	if _, err := models.TypeGUIDForPath(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Load(fs, path)
}

// Project returns the file as a file-origin Project.
func (f *File) Project() *models.Project {
	return models.NewFileProject(f.GUID, f.Path, f.TypeGUID)
}

// Dir returns the directory containing the project file.
func (f *File) Dir() string {
	return filepath.Dir(f.Path)
}

// ResolveReference joins a raw Include value with the project directory.
func (f *File) ResolveReference(include string) string {
	return filepath.Join(f.Dir(), models.NativePath(include))
}

// Dependencies yields a Project for each referenced project file, in
// declaration order. Each referenced file is loaded only when the sequence
// reaches it; stopping early leaves the rest unread.
func (f *File) Dependencies(policy MissingReferencePolicy) iter.Seq2[*models.Project, error] {
	return func(yield func(*models.Project, error) bool) {
		for _, include := range f.References {
			refPath := f.ResolveReference(include)
			if !filesystem.IsFile(f.fs, refPath) {
				if policy == SkipMissing {
					continue
				}
				err := fmt.Errorf("%w: %s (referenced from %s)", models.ErrFileNotFound, refPath, f.Path)
				yield(nil, err)
				return
			}

			ref, err := Load(f.fs, refPath)
			if err != nil {
				yield(nil, fmt.Errorf("failed to load reference %s: %w", include, err))
				return
			}

			if !yield(ref.Project(), nil) {
				return
			}
		}
	}
}

// scan walks the XML token stream and collects the first ProjectGuid value
// and every ProjectReference Include attribute. Elements are matched by local
// name so that any MSBuild namespace is accepted.
func scan(data []byte) (string, []string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	decoder.CharsetReader = charset.NewReaderLabel

	var guid string
	var refs []string
	inGUID := false
	foundGUID := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ProjectGuid":
				inGUID = !foundGUID
			case "ProjectReference":
				for _, attr := range t.Attr {
					if attr.Name.Local == "Include" {
						refs = append(refs, attr.Value)
						break
					}
				}
			}
		case xml.CharData:
			if inGUID {
				guid += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == "ProjectGuid" && inGUID {
				inGUID = false
				foundGUID = true
			}
		}
	}

	return strings.TrimSpace(guid), refs, nil
}
