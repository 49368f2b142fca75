package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// RefCommand handles the ref command
type RefCommand struct {
	fs filesystem.FileSystem
}

// NewRefCommand creates a new ref command
func NewRefCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &RefCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:     "ref",
		Short:   "Add one project to another as a project reference",
		Example: `  slnchain ref --project App/App.csproj --reference Lib/Lib.csproj`,
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().String("project", "", "Project file to add the reference into")
	cobraCmd.Flags().String("reference", "", "Project file to reference")
	_ = cobraCmd.MarkFlagRequired("project")
	_ = cobraCmd.MarkFlagRequired("reference")

	return cobraCmd
}

// Run executes the ref command
func (c *RefCommand) Run(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	reference, _ := cmd.Flags().GetString("reference")

	targetPath, err := absPath(c.fs, project)
	if err != nil {
		return err
	}
	refPath, err := absPath(c.fs, reference)
	if err != nil {
		return err
	}

	added, err := projectfile.AddReference(c.fs, targetPath, refPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !added {
		_, _ = fmt.Fprintln(out, tui.RenderWarning(fmt.Sprintf("%s already references %s", project, reference)))
		return nil
	}

	_, _ = fmt.Fprintln(out, tui.RenderSuccess(fmt.Sprintf("Added reference to %s in %s", reference, project)))
	return nil
}
