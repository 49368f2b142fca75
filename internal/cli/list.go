package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/models"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/jakoblorz/slnchain/internal/tui"
)

var typeLabels = map[uuid.UUID]string{
	models.CSharpTypeGUID: "C#",
	models.CppTypeGUID:    "C++",
	models.VBTypeGUID:     "VB",
	models.FSharpTypeGUID: "F#",
	models.FolderTypeGUID: "folder",
}

func typeLabel(p *models.Project) string {
	if label, ok := typeLabels[p.TypeGUID()]; ok {
		return label
	}
	return models.FormatGUID(p.TypeGUID())
}

// ListCommand handles the list command
type ListCommand struct {
	fs filesystem.FileSystem
}

// NewListCommand creates a new list command
func NewListCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &ListCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects of a solution",
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringP("source", "s", "", "Solution to list")
	cobraCmd.Flags().Bool("folders", false, "Include solution folders")
	_ = cobraCmd.MarkFlagRequired("source")

	return cobraCmd
}

// Run executes the list command
func (c *ListCommand) Run(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	folders, _ := cmd.Flags().GetBool("folders")

	sourcePath, err := absPath(c.fs, source)
	if err != nil {
		return err
	}

	s, err := sln.Load(c.fs, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to load solution: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, p := range s.Projects {
		if p.IsFolder() && !folders {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
			tui.ProjectStyle.Render(p.Name()), typeLabel(p), p.Key(), tui.SubtleStyle.Render(s.RelativePath(p)))
	}

	return nil
}
