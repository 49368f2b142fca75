package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/scan"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// ScanCommand handles the scan command
type ScanCommand struct {
	fs filesystem.FileSystem
}

// NewScanCommand creates a new scan command
func NewScanCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &ScanCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:   "scan",
		Short: "Find project files that are not part of a solution",
		Long: `Walks a directory tree for .csproj, .vcxproj, .vbproj and .fsproj files,
skipping bin/, obj/ and anything matched by the root .gitignore, and lists
those whose ProjectGuid is not a member of the given solution.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("dir", ".", "Directory to scan")
	cobraCmd.Flags().StringP("solution", "s", "", "Solution to compare against")
	_ = cobraCmd.MarkFlagRequired("solution")

	return cobraCmd
}

// Run executes the scan command
func (c *ScanCommand) Run(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	solution, _ := cmd.Flags().GetString("solution")

	root, err := absPath(c.fs, dir)
	if err != nil {
		return err
	}
	solutionPath, err := absPath(c.fs, solution)
	if err != nil {
		return err
	}

	s, err := sln.Load(c.fs, solutionPath)
	if err != nil {
		return fmt.Errorf("failed to load solution: %w", err)
	}

	found, err := scan.Projects(c.fs, root)
	if err != nil {
		return err
	}

	missing := scan.NotInSolution(found, s)
	out := cmd.OutOrStdout()
	for _, f := range missing {
		if f.Err != nil {
			_, _ = fmt.Fprintln(out, tui.RenderWarning(fmt.Sprintf("%s: %v", f.Path, f.Err)))
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n",
			tui.ProjectStyle.Render(f.File.Project().Name()), f.File.Project().Key(), tui.SubtleStyle.Render(s.RelativePath(f.File.Project())))
	}

	_, _ = fmt.Fprintf(out, "%d of %d project file(s) not in %s\n", len(missing), len(found), solution)
	return nil
}
