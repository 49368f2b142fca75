package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Well-known project type GUIDs.
var (
	FolderTypeGUID = uuid.MustParse("2150E333-8FDC-42A3-9474-1A3956D46DE8")
	CSharpTypeGUID = uuid.MustParse("FAE04EC0-301F-11D3-BF4B-00C04F79EFBC")
	CppTypeGUID    = uuid.MustParse("8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942")
	VBTypeGUID     = uuid.MustParse("F184B08F-C81C-45F6-A57F-5ABD9991F28F")
	FSharpTypeGUID = uuid.MustParse("F2A71F9B-5D33-465A-A702-920D77279786")
)

var typeGUIDsByExt = map[string]uuid.UUID{
	".csproj":  CSharpTypeGUID,
	".vcxproj": CppTypeGUID,
	".vbproj":  VBTypeGUID,
	".fsproj":  FSharpTypeGUID,
}

// TypeGUIDForPath maps a project file extension to its type GUID.
func TypeGUIDForPath(path string) (uuid.UUID, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if guid, ok := typeGUIDsByExt[ext]; ok {
		return guid, nil
	}
	return uuid.Nil, fmt.Errorf("%w: %q", ErrUnsupportedProjectType, ext)
}

// IsProjectFile reports whether path has a recognized project extension.
func IsProjectFile(path string) bool {
	_, ok := typeGUIDsByExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ParseGUID accepts GUIDs with or without surrounding braces.
func ParseGUID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return uuid.Parse(s)
}

// FormatGUID renders a GUID the way Visual Studio writes it: braced, upper case.
func FormatGUID(guid uuid.UUID) string {
	return "{" + strings.ToUpper(guid.String()) + "}"
}
