package sln

import (
	"bytes"
	"fmt"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
)

const tempAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Encode renders the solution as .sln text: the preamble verbatim, one
// Project block per project in order, then a single Global block.
func Encode(s *Solution) []byte {
	nl := s.Newline
	if nl == "" {
		nl = "\r\n"
	}

	var b bytes.Buffer
	b.Write(s.Preamble)

	for _, p := range s.Projects {
		fmt.Fprintf(&b, "Project(\"%s\") = \"%s\", \"%s\", \"%s\"%s",
			models.FormatGUID(p.TypeGUID()), p.Name(), s.RelativePath(p), p.Key(), nl)

		for _, section := range p.Sections() {
			fmt.Fprintf(&b, "\tProjectSection(%s) = %s%s", section.Name, section.Type.Tag(), nl)
			writeEntries(&b, section.Entries, nl)
			b.WriteString("\tEndProjectSection" + nl)
		}

		b.WriteString("EndProject" + nl)
	}

	b.WriteString("Global" + nl)
	for _, section := range s.Global {
		fmt.Fprintf(&b, "\tGlobalSection(%s) = %s%s", section.Name, section.Type.Tag(), nl)
		writeEntries(&b, section.Entries, nl)
		b.WriteString("\tEndGlobalSection" + nl)
	}
	b.WriteString("EndGlobal" + nl)

	return b.Bytes()
}

func writeEntries(b *bytes.Buffer, entries *models.Entries, nl string) {
	for _, entry := range entries.All() {
		fmt.Fprintf(b, "\t\t%s = %s%s", entry.Key, entry.Value, nl)
	}
}

// Save overwrites the solution file with Encode(s). The text is written to a
// temporary sibling first and then renamed over the target, so readers never
// observe a half-written file.
func (s *Solution) Save(fs filesystem.FileSystem) error {
	suffix, err := gonanoid.Generate(tempAlphabet, 8)
	if err != nil {
		return fmt.Errorf("failed to generate temp name: %w", err)
	}

	tmp := filepath.Join(s.Dir(), "."+filepath.Base(s.Path)+"."+suffix+".tmp")
	if err := fs.WriteFile(tmp, Encode(s), 0644); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}

	if err := fs.Rename(tmp, s.Path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to replace solution: %w", err)
	}

	return nil
}
