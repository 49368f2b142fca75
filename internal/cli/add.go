package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
	"github.com/jakoblorz/slnchain/internal/projectfile"
	"github.com/jakoblorz/slnchain/internal/report"
	"github.com/jakoblorz/slnchain/internal/sln"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// AddCommand handles the add command
type AddCommand struct {
	fs     filesystem.FileSystem
	picker tui.ProjectPicker
	logger LoggerFunc
}

// NewAddCommand creates a new add command
func NewAddCommand(fs filesystem.FileSystem, picker tui.ProjectPicker, logger LoggerFunc) *cobra.Command {
	cmd := &AddCommand{fs: fs, picker: picker, logger: logger}

	cobraCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project and its dependency chain to a solution",
		Long: `Add a root project and every project it transitively references to a
target solution.

Projects already in the target (matched by GUID) are left alone. Build
configuration entries for --source-config are copied from the source
solution and rewritten to --target-config; existing keys in the target win.

With --project-file instead of --source, the chain is read straight from the
project files and ActiveCfg/Build.0 entries are generated for --target-config.`,
		Example: `  # Bring Core.Contracts and its references into App.sln
  slnchain add -s Core/Core.sln -p Core.Contracts -t App/App.sln \
    --source-config "Release|x86" --target-config "Release|Licensed"

  # Start from a project file that is not part of any solution
  slnchain add --project-file Lib/Lib.csproj -t App/App.sln --target-config "Debug|Any CPU"

  # Preview without writing
  slnchain add -s Core/Core.sln -p Core.Contracts -t App/App.sln \
    --source-config "Release|x86" --target-config "Release|x86" --dry-run`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringP("source", "s", "", "Source solution containing the root project")
	cobraCmd.Flags().StringP("project", "p", "", "Root project name in the source solution")
	cobraCmd.Flags().String("project-file", "", "Root project file, used instead of --source")
	cobraCmd.Flags().StringP("target", "t", "", "Target solution to insert projects into")
	cobraCmd.Flags().String("source-config", "", "Configuration|Platform to read from the source solution")
	cobraCmd.Flags().String("target-config", "", "Configuration|Platform to use in the target solution")
	cobraCmd.Flags().String("missing-refs", "skip", "What to do with references to missing files: skip or fail")
	cobraCmd.Flags().Bool("create", false, "Create the target solution if it does not exist")
	cobraCmd.Flags().Bool("backup", false, "Keep a copy of the target solution before overwriting it")
	cobraCmd.Flags().Bool("dry-run", false, "Show what would change without writing")
	cobraCmd.Flags().String("summary-template", "", "Go template file (with sprig functions) for the summary")

	cobraCmd.MarkFlagsMutuallyExclusive("source", "project-file")
	_ = cobraCmd.MarkFlagRequired("target")
	_ = cobraCmd.MarkFlagRequired("target-config")

	return cobraCmd
}

// Run executes the add command
func (c *AddCommand) Run(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	projectName, _ := cmd.Flags().GetString("project")
	projectFile, _ := cmd.Flags().GetString("project-file")
	target, _ := cmd.Flags().GetString("target")
	sourceConfig, _ := cmd.Flags().GetString("source-config")
	targetConfig, _ := cmd.Flags().GetString("target-config")
	missingRefs, _ := cmd.Flags().GetString("missing-refs")
	create, _ := cmd.Flags().GetBool("create")
	backup, _ := cmd.Flags().GetBool("backup")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	summaryTemplate, _ := cmd.Flags().GetString("summary-template")

	policy, err := projectfile.ParseMissingReferencePolicy(missingRefs)
	if err != nil {
		return err
	}

	req := merge.Request{
		ProjectName:  projectName,
		SourceConfig: sourceConfig,
		TargetConfig: targetConfig,
		MissingRefs:  policy,
		CreateTarget: create,
		Backup:       backup,
		DryRun:       dryRun,
	}

	if req.SourceSolution, err = absPath(c.fs, source); err != nil {
		return err
	}
	if req.ProjectFile, err = absPath(c.fs, projectFile); err != nil {
		return err
	}
	if req.TargetSolution, err = absPath(c.fs, target); err != nil {
		return err
	}

	if req.SourceSolution != "" && req.ProjectName == "" && c.picker != nil {
		name, err := c.pickProject(req.SourceSolution)
		if err != nil {
			return err
		}
		req.ProjectName = name
	}

	renderer := report.NewDefaultRenderer()
	if summaryTemplate != "" {
		templatePath, err := absPath(c.fs, summaryTemplate)
		if err != nil {
			return err
		}
		if renderer, err = report.LoadRenderer(c.fs, templatePath); err != nil {
			return err
		}
	}

	chain := merge.NewChain(c.fs, merge.WithLogger(c.logger.get()))
	result, err := chain.Run(req)
	if err != nil {
		return err
	}

	summary, err := renderer.Render(result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprint(out, summary)
	if !dryRun {
		_, _ = fmt.Fprintln(out, tui.RenderSuccess("Done."))
	}

	return nil
}

func (c *AddCommand) pickProject(solutionPath string) (string, error) {
	s, err := sln.Load(c.fs, solutionPath)
	if err != nil {
		return "", fmt.Errorf("failed to load source solution: %w", err)
	}

	project, err := c.picker.PickProject("Root project", s.Projects)
	if err != nil {
		return "", err
	}
	return project.Name(), nil
}

func absPath(fs filesystem.FileSystem, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filesystem.Abs(fs, path)
}
