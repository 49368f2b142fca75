package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// CheckCommand handles the check command
type CheckCommand struct {
	fs filesystem.FileSystem
}

// NewCheckCommand creates a new check command
func NewCheckCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &CheckCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:   "check",
		Short: "Report build configuration entries for projects missing from a solution",
		Long: `Every key of the ProjectConfigurationPlatforms section starts with a
project GUID. check lists the keys whose GUID does not belong to any
project of the solution and fails if there are any.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringP("source", "s", "", "Solution to check")
	_ = cobraCmd.MarkFlagRequired("source")

	return cobraCmd
}

// Run executes the check command
func (c *CheckCommand) Run(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")

	sourcePath, err := absPath(c.fs, source)
	if err != nil {
		return err
	}

	s, err := sln.Load(c.fs, sourcePath)
	if err != nil {
		return fmt.Errorf("failed to load solution: %w", err)
	}

	dangling, err := s.DanglingBuildConfigs()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(dangling) == 0 {
		_, _ = fmt.Fprintln(out, tui.RenderSuccess("All build configuration entries reference known projects."))
		return nil
	}

	for _, key := range dangling {
		_, _ = fmt.Fprintln(out, tui.RenderWarning(key))
	}
	return fmt.Errorf("%d build configuration entries reference unknown projects", len(dangling))
}
