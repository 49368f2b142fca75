package projectfile

import (
	"bytes"
	"encoding/xml"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/slnchain/internal/filesystem"
)

// AddReference inserts a ProjectReference to refPath into the project file at
// targetPath. The rest of the target file is left byte-for-byte intact. It
// reports false when the target already references the same project.
func AddReference(fs filesystem.FileSystem, targetPath, refPath string) (bool, error) {
	target, err := Load(fs, targetPath)
	if err != nil {
		return false, err
	}
	ref, err := Load(fs, refPath)
	if err != nil {
		return false, err
	}
	if target.GUID == ref.GUID {
		return false, fmt.Errorf("%s cannot reference itself", targetPath)
	}

	for _, include := range target.References {
		existing := target.ResolveReference(include)
		if strings.EqualFold(filepath.Clean(existing), ref.Path) {
			return false, nil
		}
		if other, err := Load(fs, existing); err == nil && other.GUID == ref.GUID {
			return false, nil
		}
	}

	rel, err := filepath.Rel(target.Dir(), ref.Path)
	if err != nil {
		return false, fmt.Errorf("failed to compute reference path: %w", err)
	}
	include := strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)

	data, err := fs.ReadFile(target.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read project file: %w", err)
	}

	updated, err := insertReference(string(data), include, ref)
	if err != nil {
		return false, fmt.Errorf("%s: %w", target.Path, err)
	}

	perm := filePerm(fs, target.Path)
	if err := fs.WriteFile(target.Path, []byte(updated), perm); err != nil {
		return false, fmt.Errorf("failed to write project file: %w", err)
	}

	return true, nil
}

func insertReference(content, include string, ref *File) (string, error) {
	nl := "\n"
	if strings.Contains(content, "\r\n") {
		nl = "\r\n"
	}

	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(include)); err != nil {
		return "", err
	}

	element := func(indent, unit string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s<ProjectReference Include=\"%s\">%s", indent, escaped.String(), nl)
		fmt.Fprintf(&b, "%s%s<Project>{%s}</Project>%s", indent, unit, ref.GUID.String(), nl)
		fmt.Fprintf(&b, "%s%s<Name>%s</Name>%s", indent, unit, ref.Project().Name(), nl)
		fmt.Fprintf(&b, "%s</ProjectReference>%s", indent, nl)
		return b.String()
	}

	if refIdx := strings.Index(content, "<ProjectReference"); refIdx >= 0 {
		closeIdx := strings.Index(content[refIdx:], "</ItemGroup>")
		if closeIdx < 0 {
			return "", fmt.Errorf("unterminated ItemGroup")
		}
		closeIdx += refIdx

		itemIndent := leadingWhitespace(content, refIdx)
		groupIndent := leadingWhitespace(content, closeIdx)
		unit := strings.TrimPrefix(itemIndent, groupIndent)
		if unit == "" {
			unit = "  "
		}

		at := lineStart(content, closeIdx)
		return content[:at] + element(itemIndent, unit) + content[at:], nil
	}

	closeIdx := strings.LastIndex(content, "</Project>")
	if closeIdx < 0 {
		return "", fmt.Errorf("missing </Project> element")
	}

	unit := "  "
	if idx := strings.Index(content, "<PropertyGroup"); idx >= 0 {
		if ws := leadingWhitespace(content, idx); ws != "" {
			unit = ws
		}
	}

	var group strings.Builder
	group.WriteString(unit + "<ItemGroup>" + nl)
	group.WriteString(element(unit+unit, unit))
	group.WriteString(unit + "</ItemGroup>" + nl)

	at := lineStart(content, closeIdx)
	return content[:at] + group.String() + content[at:], nil
}

// lineStart returns the offset of the first byte of the line holding idx,
// provided only whitespace precedes idx on that line.
func lineStart(content string, idx int) int {
	start := strings.LastIndex(content[:idx], "\n") + 1
	if strings.TrimSpace(content[start:idx]) != "" {
		return idx
	}
	return start
}

func leadingWhitespace(content string, idx int) string {
	start := strings.LastIndex(content[:idx], "\n") + 1
	prefix := content[start:idx]
	if strings.TrimSpace(prefix) != "" {
		return ""
	}
	return prefix
}

func filePerm(fsys filesystem.FileSystem, path string) iofs.FileMode {
	if info, err := fsys.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}
